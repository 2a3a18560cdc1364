package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
)

// DynamicStyleFunction is a namespace defined by an arrow function. Its
// static skeleton is compiled like any other namespace; InlineStyles lists
// the values that must be computed from Params at runtime.
type DynamicStyleFunction struct {
	Params       []string
	InlineStyles InlineStyles
}

// MarshalJSON encodes the function as {"parameters", "inlineStyles"}.
func (f *DynamicStyleFunction) MarshalJSON() ([]byte, error) {
	obj := NewObject()
	obj.Set("parameters", toAnySlice(f.Params))
	obj.Set("inlineStyles", f.InlineStyles)

	return obj.MarshalJSON()
}

// MarshalYAML encodes the function with inline styles in variable order.
func (f *DynamicStyleFunction) MarshalYAML() (any, error) {
	styles := make(yaml.MapSlice, 0, len(f.InlineStyles))
	for _, name := range slices.Sorted(maps.Keys(f.InlineStyles)) {
		styles = append(styles, yaml.MapItem{Key: name, Value: f.InlineStyles[name]})
	}

	return yaml.MapSlice{
		{Key: "parameters", Value: f.Params},
		{Key: "inlineStyles", Value: styles},
	}, nil
}

// StyleResult is the outcome of [EvaluateStyleDefinition]. When Confident,
// Value is an *Object mapping namespace names to raw style objects, and
// Functions holds the dynamic style functions by namespace name.
type StyleResult struct {
	Result

	Functions map[string]*DynamicStyleFunction
}

// EvaluateStyleDefinition evaluates the argument of a style definition.
//
// Namespace values that are arrow functions returning an object literal
// become dynamic style functions; every other value must evaluate
// confidently or the whole definition is deferred. A dynamic style function
// declaring anything but plain named parameters is an error.
func EvaluateStyleDefinition(
	ctx context.Context,
	n Node,
	st *State,
	fns FunctionConfig,
) (StyleResult, error) {
	if st == nil {
		st = new(State)
	}

	ev := &evaluator{ctx: ctx, st: st, fns: fns}

	obj, ok := n.(*ObjectExpr)
	if !ok {
		r, err := ev.eval(n)

		return StyleResult{Result: r}, err
	}

	value := NewObject()
	dynamic := make(map[string]*DynamicStyleFunction)

	for _, entry := range obj.Entries {
		prop, ok := entry.(*Property)
		if !ok || prop.Method {
			return ev.whole(obj)
		}

		key, kr, err := ev.propertyKey(prop)
		if err != nil || kr != nil {
			return StyleResult{Result: *kr}, err
		}

		fn, ok := prop.Value.(*Lambda)
		if !ok {
			r, err := ev.eval(prop.Value)
			if err != nil || !r.Confident {
				return StyleResult{Result: r}, err
			}

			value.Set(key, r.Value)

			continue
		}

		params, err := namedParams(fn)
		if err != nil {
			return StyleResult{}, err
		}

		body, ok := fn.Body.(*ObjectExpr)
		if !ok {
			return ev.whole(obj)
		}

		r, err := ev.partial(body, nil)
		if err != nil || !r.Confident {
			return StyleResult{Result: r.Result}, err
		}

		value.Set(key, r.Value)
		dynamic[key] = &DynamicStyleFunction{Params: params, InlineStyles: r.InlineStyles}

		ev.st.Logger.DebugContext(ctx, "dynamic style function",
			slog.String("namespace", key),
			slog.Any("params", params),
			slog.Int("inline_styles", len(r.InlineStyles)))
	}

	return StyleResult{Result: Confident(value), Functions: dynamic}, nil
}

// whole evaluates the definition as an ordinary expression.
func (ev *evaluator) whole(obj *ObjectExpr) (StyleResult, error) {
	r, err := ev.eval(obj)

	return StyleResult{Result: r}, err
}

// namedParams returns the parameter names of fn, which must all be plain
// identifiers.
func namedParams(fn *Lambda) ([]string, error) {
	names := make([]string, 0, len(fn.Params))

	for _, p := range fn.Params {
		id, ok := p.(*Ident)
		if !ok {
			return nil, p.Errorf(ErrParameterShape, "").
				With(slog.String("param", Print(p)))
		}

		names = append(names, id.Name)
	}

	return names, nil
}
