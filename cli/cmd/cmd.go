package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/jeongminsang/stylex/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName names the module read from stdin in results and diagnostics.
const stdinName = "<stdin>"

//nolint:gochecknoglobals
var stdin io.Reader = os.Stdin

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles duplicates across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources removes repeated sources from paths, keeping the first
// occurrence of each file. Files are compared by device and inode after
// resolving symlinks. Paths that cannot be resolved are kept as given so
// that compiling them reports the failure. stdinSource is kept at most once.
func uniqueSources(paths []string) (files []string, hasStdin bool) {
	seen := make(map[fileKey]struct{}, len(paths))
	names := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := sourceKey(path)
		if !ok {
			if _, dup := names[path]; !dup {
				names[path] = struct{}{}
				files = append(files, path)
			}

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		files = append(files, path)
	}

	return files, hasStdin
}

func sourceKey(path string) (fileKey, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// Output formats accepted by [encode].
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// encode writes v to w in format.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

	case formatYAML:
		b, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.UseLiteralStyleIfMultiline(true))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		if _, err := w.Write(b); err != nil {
			return pkg.ErrWriteOutput.Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (want %s or %s)", format, formatJSON, formatYAML)
	}

	return nil
}
