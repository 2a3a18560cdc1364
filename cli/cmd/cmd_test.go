package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/jeongminsang/stylex/lang"
	"github.com/jeongminsang/stylex/pkg"
)

// runContext returns a context carrying a kong context whose Stdout is the
// returned buffer.
func runContext(t *testing.T, vars kong.Vars) (context.Context, *bytes.Buffer) {
	t.Helper()

	var (
		out bytes.Buffer
		cli struct{}
	)

	parser, err := kong.New(&cli, kong.Writers(&out, io.Discard), vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx), &out
}

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()
	a := writeModule(t, dir, "a.js", "")
	b := writeModule(t, dir, "b.js", "")

	link := filepath.Join(dir, "link.js")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	missing := filepath.Join(dir, "missing.js")

	files, hasStdin := uniqueSources([]string{
		a, stdinSource, link, b, filepath.Join(dir, ".", "a.js"), missing, missing, stdinSource,
	})

	if want := []string{a, b, missing}; !reflect.DeepEqual(files, want) {
		t.Errorf("files = %q, want %q", files, want)
	}

	if !hasStdin {
		t.Error("hasStdin = false, want true")
	}

	if files, hasStdin := uniqueSources(nil); files != nil || hasStdin {
		t.Errorf("uniqueSources(nil) = %q, %v", files, hasStdin)
	}
}

func TestEncode(t *testing.T) {
	obj := lang.NewObject()
	obj.Set("expr", "(a) => a")
	obj.Set("size", 1.5)

	tests := []struct {
		format string
		want   string
		err    error
	}{
		{format: formatJSON, want: "{\n  \"expr\": \"(a) => a\",\n  \"size\": 1.5\n}\n"},
		{format: formatYAML, want: "size: 1.5\n"},
		{format: "toml", err: pkg.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			err := encode(&buf, tt.format, obj)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("encode() error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("encode() error = %v", err)
			}

			got := buf.String()

			if tt.format == formatYAML {
				// Keys keep insertion order.
				if !strings.HasPrefix(got, "expr: ") || !strings.HasSuffix(got, tt.want) {
					t.Errorf("encode() = %q", got)
				}

				return
			}

			if got != tt.want {
				t.Errorf("encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStdout(t *testing.T) {
	if got := stdout(t.Context()); got != os.Stdout {
		t.Errorf("stdout() = %v, want os.Stdout", got)
	}

	ctx, buf := runContext(t, nil)
	if w := stdout(ctx); w != io.Writer(buf) {
		t.Errorf("stdout() = %v, want kong Stdout", w)
	}
}
