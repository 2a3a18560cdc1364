package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeongminsang/stylex/hash"
	"github.com/jeongminsang/stylex/pkg"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

type exitCode int

func run(t *testing.T, config string, args ...string) (out string, code int, err error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	code = -1

	func() {
		defer func() {
			if r := recover(); r != nil {
				c, ok := r.(exitCode)
				if !ok {
					panic(r)
				}

				code = int(c)
			}
		}()

		err = Run(t.Context(), func(c int) { panic(exitCode(c)) }, args,
			WithConfigFile(config),
			WithOutput(&stdout, &stderr),
		)
	}()

	return stdout.String(), code, err
}

func TestRun(t *testing.T) {
	module := writeFile(t, "m.js", `export const s = create({ a: { color: "red" } });`)
	noConfig := filepath.Join(t.TempDir(), "none.yaml")

	red := hash.String("<>colorred")

	t.Run("default command", func(t *testing.T) {
		out, _, err := run(t, noConfig, module)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var report []map[string]any
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}

		if !strings.Contains(out, `"x`+red+`"`) {
			t.Errorf("output does not contain class x%s:\n%s", red, out)
		}
	})

	t.Run("css", func(t *testing.T) {
		out, _, err := run(t, noConfig, "compile", "--css", module)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if want := ".x" + red + "{color:red}\n"; out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("config file", func(t *testing.T) {
		config := writeFile(t, "config.yaml", "prefix: s\nlog:\n  level: error\n")

		out, _, err := run(t, config, "compile", "--css", module)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if !strings.HasPrefix(out, ".s"+red) {
			t.Errorf("output = %q, want prefix s", out)
		}

		out, _, err = run(t, config, "compile", "--css", "--prefix=p", module)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if !strings.HasPrefix(out, ".p"+red) {
			t.Errorf("output = %q, want the flag to override the file", out)
		}
	})

	t.Run("version", func(t *testing.T) {
		out, code, _ := run(t, noConfig, "--version")
		if code != 0 {
			t.Errorf("exit code = %d, want 0", code)
		}

		if want := pkg.Name + " " + pkg.Version(); strings.TrimSpace(out) != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("init", func(t *testing.T) {
		config := filepath.Join(t.TempDir(), "config.yaml")

		if _, _, err := run(t, config, "init"); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		data, err := os.ReadFile(config)
		if err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(string(data), "prefix: x") {
			t.Errorf("config = %s", data)
		}
	})
}
