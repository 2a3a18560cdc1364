package profile

import (
	"slices"
	"testing"
)

func TestConfig_Start(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no mode", Config{}},
		{"unknown mode", Config{Mode: "nonsense", Dir: t.TempDir(), Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.cfg.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", s)
			}

			s.Stop()
		})
	}
}

func TestModes(t *testing.T) {
	m := Modes()
	if !slices.IsSorted(m) {
		t.Errorf("Modes() = %q is not sorted", m)
	}

	if slices.Contains(m, "quiet") {
		t.Error("Modes() contains quiet")
	}
}
