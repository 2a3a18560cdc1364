package log

import (
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat(" JSON "); got != FormatJSON {
		t.Errorf("expected json, got %v", got)
	}

	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("expected text, got %v", got)
	}

	if got := ParseFormat("yaml"); got != DefaultFormat {
		t.Errorf("expected default format, got %v", got)
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("level %q round-tripped to %q", name, got)
		}
	}

	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("format %q round-tripped to %q", name, got)
		}
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelDebug {
		t.Errorf("expected level debug, got %v", c.level)
	}

	if c.format != FormatJSON {
		t.Errorf("expected format json, got %v", c.format)
	}

	if !c.caller {
		t.Error("expected caller enabled")
	}

	if c.pretty {
		t.Error("expected pretty disabled")
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"named", "RFC3339", "2023-10-15T14:30:45Z"},
		{"named nano", "rfc3339nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"none", "none", ""},
		{"empty", "   ", ""},
		{"custom", "2006/01/02", "2023/10/15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestConfig_formatTime_UnknownNameIsVerbatim(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 0, time.UTC)
	c := WithTimeLayout("UNKNOWN")(config{})

	if got := c.formatTime(now); !strings.Contains(got, "UNKNOWN") {
		t.Errorf("expected verbatim layout, got %q", got)
	}
}
