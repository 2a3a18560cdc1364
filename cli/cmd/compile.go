package cmd

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/jeongminsang/stylex/compiler"
	"github.com/jeongminsang/stylex/log"
	"github.com/jeongminsang/stylex/pkg"
	"github.com/jeongminsang/stylex/style"
)

// Compile compiles style modules and prints their compiled namespaces, or
// the stylesheet of every injected rule.
type Compile struct {
	Files []string `arg:"" default:"-" help:"Style modules to compile or '-' for stdin" name:"file"`

	Format     string            `default:"json" enum:"json,yaml" help:"Report format."                                short:"o"`
	CSS        bool              `                                help:"Print the stylesheet instead of the report." name:"css"`
	MinifyKeys bool              `                                help:"Replace namespace keys with short hashes."`
	Debug      bool              `                                help:"Keep readable keys when minifying."`
	Prefix     string            `default:"x"                     help:"Class name prefix."`
	Jobs       int               `default:"0"                     help:"Files compiled at once (0 uses GOMAXPROCS)." short:"j"`
	Define     map[string]string `                                help:"Predefined string constants."              short:"D"`
}

func (c *Compile) options() compiler.Options {
	opts := compiler.DefaultOptions()
	opts.Style.EnableMinifiedKeys = c.MinifyKeys
	opts.Style.Debug = c.Debug
	opts.Style.ClassNamePrefix = c.Prefix
	opts.Parallelism = c.Jobs
	opts.Constants = constants(c.Define)

	return opts
}

func constants(define map[string]string) map[string]any {
	if len(define) == 0 {
		return nil
	}

	m := make(map[string]any, len(define))
	for k, v := range define {
		m[k] = v
	}

	return m
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) error {
	results, err := compileSources(ctx, c.Files, c.options())
	if err != nil {
		return err
	}

	injected := compiler.Injected(results...)

	log.DebugContext(ctx, "compiled modules",
		slog.Int("modules", len(results)),
		slog.Int("classes", len(injected)),
	)

	w := stdout(ctx)

	if c.CSS {
		if _, err := io.WriteString(w, style.Stylesheet(injected)); err != nil {
			return pkg.ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	return encode(w, c.Format, results)
}

// compileSources compiles the unique sources of paths, reading stdin last.
func compileSources(ctx context.Context, paths []string, opts compiler.Options) ([]*compiler.Result, error) {
	files, hasStdin := uniqueSources(paths)

	results, err := compiler.CompileFiles(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	if !hasStdin {
		return results, nil
	}

	r, err := compiler.CompileReader(ctx, stdinName, stdin, opts)
	if err != nil {
		return nil, err
	}

	return append(slices.Clip(results), r), nil
}
