package cli

import "testing"

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"compile", "--log-level", "debug", "--log-format", "json", "a.js"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=error", "--log-caller", "--no-log-pretty"},
			want: logConfig{Level: "error", Caller: true},
		},
		{
			name: "explicit booleans",
			args: []string{"--log-pretty=false", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--log-pretty=maybe"},
			want: logConfig{Pretty: true},
		},
		{
			name: "unrelated",
			args: []string{"--logger=x", "--prefix", "s"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
