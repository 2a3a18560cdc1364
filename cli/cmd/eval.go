package cmd

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/jeongminsang/stylex/compiler"
	"github.com/jeongminsang/stylex/lang"
	"github.com/jeongminsang/stylex/pkg"
)

// Eval prints the evaluated style definitions of a module before they are
// compiled, including the dynamic style functions and their inline styles.
type Eval struct {
	File    string `arg:"" help:"Style module to evaluate or '-' for stdin"     name:"file"`
	Binding string `arg:"" help:"Binding to print (all definitions if omitted)" name:"binding" optional:""`

	Format string            `default:"yaml" enum:"json,yaml" help:"Output format."                short:"o"`
	Define map[string]string `                                help:"Predefined string constants." short:"D"`
}

// evaluated is the printed form of one binding.
type evaluated struct {
	Name    string                                `json:"name"              yaml:"name"`
	Styles  *lang.Object                          `json:"styles,omitempty"  yaml:"styles,omitempty"`
	Dynamic map[string]*lang.DynamicStyleFunction `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Value   any                                   `json:"value,omitempty"   yaml:"value,omitempty"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	opts := compiler.DefaultOptions()
	opts.Constants = constants(e.Define)

	results, err := compileSources(ctx, []string{e.File}, opts)
	if err != nil {
		return err
	}

	res := results[0]

	out, err := e.pick(res)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("source", res.Source),
		)
	}

	return encode(stdout(ctx), e.Format, out)
}

func (e *Eval) pick(res *compiler.Result) ([]evaluated, error) {
	if e.Binding == "" {
		out := make([]evaluated, 0, len(res.Definitions))
		for _, d := range res.Definitions {
			out = append(out, fromDefinition(d))
		}

		return out, nil
	}

	if d, ok := res.Definition(e.Binding); ok {
		return []evaluated{fromDefinition(d)}, nil
	}

	if v, ok := res.Constants[e.Binding]; ok {
		return []evaluated{{Name: e.Binding, Value: v}}, nil
	}

	names := slices.Sorted(maps.Keys(res.Constants))
	if m := fuzzy.Find(e.Binding, names); len(m) > 0 {
		return nil, pkg.ErrBindingNotFound.Wrapf("%s (did you mean %s?)", e.Binding, m[0].Str)
	}

	return nil, pkg.ErrBindingNotFound.Wrapf("%s", e.Binding)
}

func fromDefinition(d *compiler.Definition) evaluated {
	return evaluated{Name: d.Name, Styles: d.Raw, Dynamic: d.Dynamic}
}
