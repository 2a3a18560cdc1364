package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/jeongminsang/stylex/pkg"
)

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create", force: false},
		{name: "overwrite with force", force: true, exists: true},
		{name: "exists without force", force: false, exists: true, wantErr: pkg.ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Compile Compile `cmd:""`
				Init    Init    `cmd:""`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{"init"})
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(context.Background(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, data)
			}

			if got["prefix"] != "x" || got["minify-keys"] != false {
				t.Errorf("config = %v, want compile defaults", got)
			}

			for _, skipped := range []string{"help", "force", "format", "existing"} {
				if _, ok := got[skipped]; ok {
					t.Errorf("config contains %s", skipped)
				}
			}
		})
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		in  any
		set bool
	}{
		{nil, false},
		{"", false},
		{"x", true},
		{[]string{}, false},
		{[]string{"a"}, true},
		{map[string]string{}, false},
		{false, true},
		{0, true},
	}

	for _, tt := range tests {
		if _, set := configValue(tt.in); set != tt.set {
			t.Errorf("configValue(%#v) set = %v, want %v", tt.in, set, tt.set)
		}
	}
}
