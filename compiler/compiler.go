package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jeongminsang/stylex/lang"
	"github.com/jeongminsang/stylex/log"
	"github.com/jeongminsang/stylex/style"
)

// CreateFunction is the name of the style definition call.
const CreateFunction = "create"

// ErrDeferred reports a style definition that cannot be resolved statically.
var ErrDeferred = lang.NewError("style definition is not statically resolvable")

// Options configure module compilation.
type Options struct {
	Style style.Options `yaml:",inline"`
	// Parallelism bounds the files compiled at once by [CompileFiles].
	// Zero or less means GOMAXPROCS.
	Parallelism int `yaml:"jobs"`
	// Functions are the Go functions and members visible to style modules.
	Functions lang.FunctionConfig `yaml:"-"`
	// Constants are predefined module-level values.
	Constants map[string]any `yaml:"-"`

	Logger log.Logger `yaml:"-"`
}

// DefaultOptions returns options with the default style options.
func DefaultOptions() Options {
	return Options{Style: style.DefaultOptions()}
}

func (o Options) logger() log.Logger {
	if o.Logger.Logger == nil {
		return log.Default()
	}

	return o.Logger
}

func (o Options) parallelism() int {
	if o.Parallelism > 0 {
		return o.Parallelism
	}

	return runtime.GOMAXPROCS(0)
}

// Definition is one compiled style definition binding.
type Definition struct {
	Name string        `json:"name" yaml:"name"`
	Pos  lang.Position `json:"-"    yaml:"-"`

	// Raw holds the evaluated namespaces before compilation.
	Raw *lang.Object `json:"-" yaml:"-"`

	Namespaces style.CompiledNamespaces              `json:"namespaces"        yaml:"namespaces"`
	Dynamic    map[string]*lang.DynamicStyleFunction `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	ClassPaths style.ClassPaths                      `json:"classPaths"        yaml:"classPaths"`
}

// Result is a compiled module.
type Result struct {
	Source      string               `json:"source"      yaml:"source"`
	Definitions []*Definition        `json:"definitions" yaml:"definitions"`
	Injected    style.InjectedStyles `json:"injected"    yaml:"injected"`
	// Constants are the statically known module bindings.
	Constants map[string]any `json:"-" yaml:"-"`
}

// Definition returns the definition bound to name.
func (r *Result) Definition(name string) (*Definition, bool) {
	for _, d := range r.Definitions {
		if d.Name == name {
			return d, true
		}
	}

	return nil, false
}

// CompileSource compiles the module src.
//
// Bindings are evaluated in source order. A binding whose value is a call
// to create compiles its argument as a style definition and then holds the
// compiled namespaces; any other binding becomes a constant when its value
// is statically known.
func CompileSource(ctx context.Context, name, src string, opts Options) (*Result, error) {
	mod, err := lang.Parse(ctx, name, src)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, mod, opts)
}

// CompileReader compiles the module read from r.
func CompileReader(ctx context.Context, name string, r io.Reader, opts Options) (*Result, error) {
	mod, err := lang.ParseReader(ctx, name, r)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, mod, opts)
}

// CompileFile compiles the module stored at path.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("source", path))
	}
	defer f.Close()

	return CompileReader(ctx, path, f, opts)
}

// CompileFiles compiles independent files concurrently. Results are returned
// in the order of paths. The first failure cancels the remaining files.
func CompileFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallelism())

	for i, path := range paths {
		g.Go(func() error {
			r, err := CompileFile(ctx, path, opts)
			if err != nil {
				return err
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Compile compiles a parsed module.
func Compile(ctx context.Context, mod *lang.Module, opts Options) (*Result, error) {
	logger := opts.logger().With(slog.String("source", mod.Name))

	st := &lang.State{
		Constants: make(map[string]any, len(opts.Constants)+len(mod.Bindings)),
		Logger:    logger,
	}

	for k, v := range opts.Constants {
		st.Constants[k] = v
	}

	styleOpts := opts.Style
	styleOpts.Logger = logger

	res := &Result{
		Source:    mod.Name,
		Injected:  make(style.InjectedStyles),
		Constants: st.Constants,
	}

	for _, b := range mod.Bindings {
		if arg, ok := createArgument(b.Value); ok {
			def, injected, err := compileDefinition(ctx, b, arg, st, opts.Functions, styleOpts)
			if err != nil {
				return nil, lang.WrapError(err).With(slog.String("source", mod.Name))
			}

			for class, s := range injected {
				if _, ok := res.Injected[class]; !ok {
					res.Injected[class] = s
				}
			}

			res.Definitions = append(res.Definitions, def)
			st.Constants[b.Name] = runtimeValue(def.Namespaces)

			continue
		}

		r, err := lang.Evaluate(ctx, b.Value, st, opts.Functions)
		if err != nil {
			return nil, lang.WrapError(err).With(
				slog.String("source", mod.Name),
				slog.String("binding", b.Name))
		}

		if !r.Confident {
			logger.DebugContext(ctx, "binding is not static",
				slog.String("binding", b.Name),
				slog.String("reason", r.Reason))

			continue
		}

		st.Constants[b.Name] = r.Value
	}

	logger.DebugContext(ctx, "module compiled",
		slog.Int("definitions", len(res.Definitions)),
		slog.Int("classes", len(res.Injected)))

	return res, nil
}

// createArgument returns the argument of create(arg) or stylex.create(arg).
func createArgument(n lang.Node) (lang.Node, bool) {
	call, ok := n.(*lang.Call)
	if !ok || len(call.Args) != 1 {
		return nil, false
	}

	switch callee := call.Callee.(type) {
	case *lang.Ident:
		return call.Args[0], callee.Name == CreateFunction

	case *lang.Member:
		prop, ok := callee.Property.(*lang.Ident)

		return call.Args[0], ok && !callee.Computed && prop.Name == CreateFunction
	}

	return nil, false
}

func compileDefinition(
	ctx context.Context,
	b *lang.Binding,
	arg lang.Node,
	st *lang.State,
	fns lang.FunctionConfig,
	opts style.Options,
) (*Definition, style.InjectedStyles, error) {
	r, err := lang.EvaluateStyleDefinition(ctx, arg, st, fns)
	if err != nil {
		return nil, nil, lang.WrapError(err).With(slog.String("binding", b.Name))
	}

	if !r.Confident {
		pos := b.Pos
		if r.Deopt != nil {
			pos = r.Deopt.Pos()
		}

		return nil, nil, ErrDeferred.
			WithPosition(pos).
			Wrap(errors.New(r.Reason)).
			With(slog.String("binding", b.Name))
	}

	raw, ok := r.Value.(*lang.Object)
	if !ok {
		return nil, nil, style.ErrValidation.
			WithPosition(arg.Pos()).
			Wrap(fmt.Errorf("%s must be an object of namespaces", b.Name))
	}

	namespaces := make([]style.Namespace, 0, raw.Len())

	for name, v := range raw.All() {
		styles, ok := v.(*lang.Object)
		if !ok {
			return nil, nil, style.ErrValidation.
				WithPosition(arg.Pos()).
				Wrap(fmt.Errorf("namespace %s must be an object", name)).
				With(slog.String("binding", b.Name))
		}

		namespaces = append(namespaces, style.Namespace{Name: name, Styles: styles})
	}

	compiled, injected, paths, err := style.Create(ctx, namespaces, opts)
	if err != nil {
		return nil, nil, lang.WrapError(err).With(slog.String("binding", b.Name))
	}

	return &Definition{
		Name:       b.Name,
		Pos:        b.Pos,
		Raw:        raw,
		Namespaces: compiled,
		Dynamic:    r.Functions,
		ClassPaths: paths,
	}, injected, nil
}

// runtimeValue is the value a compiled definition binding holds for later
// bindings: each namespace maps keys to class names.
func runtimeValue(c style.CompiledNamespaces) *lang.Object {
	obj := lang.NewObject()
	for _, n := range c {
		obj.Set(n.Name, n.Object())
	}

	return obj
}

// Injected merges the injected styles of results, keeping the first
// occurrence of each class.
func Injected(results ...*Result) style.InjectedStyles {
	out := make(style.InjectedStyles)

	for _, r := range results {
		for class, s := range r.Injected {
			if _, ok := out[class]; !ok {
				out[class] = s
			}
		}
	}

	return out
}
