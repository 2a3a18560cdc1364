package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jeongminsang/stylex/css"
	"github.com/jeongminsang/stylex/hash"
)

// InlineStyle describes a style value that is only known at runtime. The
// static skeleton refers to it through a CSS variable; at runtime the
// variable is set to the value of Expression.
type InlineStyle struct {
	// Path lists the keys from the namespace root to the leaf.
	Path []string
	// Original is the unresolved value expression.
	Original Node
	// Expression wraps Original with the runtime unit coercion.
	Expression Node
}

// MarshalJSON encodes the inline style with its expression as source text.
func (s InlineStyle) MarshalJSON() ([]byte, error) {
	obj := NewObject()
	obj.Set("path", toAnySlice(s.Path))
	obj.Set("expression", Print(s.Expression))

	return obj.MarshalJSON()
}

// MarshalYAML encodes the inline style with its expression as source text.
func (s InlineStyle) MarshalYAML() (any, error) {
	return yaml.MapSlice{
		{Key: "path", Value: s.Path},
		{Key: "expression", Value: Print(s.Expression)},
	}, nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}

	return out
}

// InlineStyles maps synthesized variable names to runtime style values.
type InlineStyles map[string]InlineStyle

// merge adds every entry of src to s. A variable name synthesized for two
// different paths is a collision.
func (s InlineStyles) merge(src InlineStyles, at Node) error {
	for name, style := range src {
		if err := s.add(name, style, at); err != nil {
			return err
		}
	}

	return nil
}

func (s InlineStyles) add(name string, style InlineStyle, at Node) error {
	if prev, ok := s[name]; ok && !slices.Equal(prev.Path, style.Path) {
		return at.Errorf(ErrHashCollision, "%s names both %s and %s",
			name, strings.Join(prev.Path, "."), strings.Join(style.Path, ".")).
			With(slog.String("variable", name))
	}

	s[name] = style

	return nil
}

// PartialResult is the outcome of [EvaluatePartialObject]. When Confident,
// Value holds the static skeleton as an *Object.
type PartialResult struct {
	Result

	InlineStyles InlineStyles
}

// EvaluatePartialObject evaluates a nested style object, tolerating scalar
// values that cannot be resolved statically.
//
// Spreads, keys, and nested objects must resolve; any failure among them
// defers the whole object. A scalar leaf that defers is replaced by a
// var(--name) reference, and its expression is recorded in the returned
// inline styles keyed by the variable name. keyPath is the path of obj from
// the namespace root.
func EvaluatePartialObject(
	ctx context.Context,
	obj *ObjectExpr,
	st *State,
	fns FunctionConfig,
	keyPath []string,
) (PartialResult, error) {
	if st == nil {
		st = new(State)
	}

	ev := &evaluator{ctx: ctx, st: st, fns: fns}

	return ev.partial(obj, keyPath)
}

func (ev *evaluator) partial(obj *ObjectExpr, keyPath []string) (PartialResult, error) {
	out := NewObject()
	styles := make(InlineStyles)

	for _, entry := range obj.Entries {
		switch e := entry.(type) {
		case *Spread:
			r, err := ev.eval(e.Arg)
			if err != nil || !r.Confident {
				return PartialResult{Result: r}, err
			}

			switch src := r.Value.(type) {
			case *Object:
				out.Merge(src)
			case nil, undefined:
			default:
				return PartialResult{
					Result: ev.deferf(e, "cannot spread %s into a style object", typeOf(src)),
				}, nil
			}

		case *Property:
			if e.Method {
				return PartialResult{
					Result: ev.deferf(e, "object methods are not supported"),
				}, nil
			}

			key, kr, err := ev.propertyKey(e)
			if err != nil || kr != nil {
				return PartialResult{Result: *kr}, err
			}

			key = unwrapVar(key)
			path := append(slices.Clip(keyPath), key)

			if nested, ok := e.Value.(*ObjectExpr); ok {
				r, err := ev.partial(nested, path)
				if err != nil || !r.Confident {
					return r, err
				}

				out.Set(key, r.Value)

				if err := styles.merge(r.InlineStyles, e); err != nil {
					return PartialResult{}, err
				}

				continue
			}

			if err := ev.leaf(out, styles, e, key, path); err != nil {
				return PartialResult{}, err
			}

		default:
			return PartialResult{}, entry.Errorf(ErrStructural, "%s in object literal", entry.Kind())
		}
	}

	return PartialResult{Result: Confident(out), InlineStyles: styles}, nil
}

// leaf evaluates a scalar value, absorbing a deferral into an inline style.
func (ev *evaluator) leaf(out *Object, styles InlineStyles, p *Property, key string, path []string) error {
	switch p.Value.(type) {
	case *Property, *Spread, *Pattern, nil:
		return p.Errorf(ErrStructural, "expected expression as style value")
	}

	r, err := ev.eval(p.Value)
	if err != nil {
		return err
	}

	if r.Confident {
		out.Set(key, r.Value)

		return nil
	}

	name := VarName(path)
	out.Set(key, "var("+name+")")

	ev.st.Logger.DebugContext(ev.ctx, "dynamic style value",
		slog.String("variable", name),
		slog.String("path", strings.Join(path, ".")),
		slog.String("reason", r.Reason))

	return styles.add(name, InlineStyle{
		Path:       path,
		Original:   p.Value,
		Expression: coerce(path, key, p.Value),
	}, p)
}

// VarName returns the CSS variable synthesized for the leaf at path: the
// bare key at the top level, a digest of the whole path when nested.
func VarName(path []string) string {
	if len(path) == 1 {
		return "--" + path[0]
	}

	return "--" + hash.String(strings.Join(path, "_"))
}

// unwrapVar strips a var(...) wrapper from a key.
func unwrapVar(key string) string {
	if strings.HasPrefix(key, "var(") && strings.HasSuffix(key, ")") {
		return key[len("var(") : len(key)-1]
	}

	return key
}

// coerce wraps value so that at runtime numbers of length and time
// properties gain their unit and nullish values become undefined.
//
//	((val) => typeof val === "number" ? val + "px" : val != null ? val : undefined)(value)
//	value != null ? value : undefined
func coerce(path []string, key string, value Node) Node {
	at := Loc{value.Pos()}
	prop := css.PropertyName(path, key)

	undef := func() Node { return &Ident{Loc: at, Name: "undefined"} }
	null := func() Node { return &Literal{Loc: at} }

	unit := ""
	if css.IsTimeUnit(prop) || css.IsLengthUnit(prop) {
		unit = css.NumberSuffix(prop)
	}

	if unit == "" {
		return &Cond{
			Loc:  at,
			Test: &Binary{Loc: at, Op: "!=", Left: value, Right: null()},
			Then: value,
			Else: undef(),
		}
	}

	val := func() Node { return &Ident{Loc: at, Name: "val"} }

	return &Call{
		Loc: at,
		Callee: &Lambda{
			Loc:    at,
			Params: []Node{val()},
			Body: &Cond{
				Loc: at,
				Test: &Binary{
					Loc:   at,
					Op:    "===",
					Left:  &Unary{Loc: at, Op: "typeof", Arg: val()},
					Right: &Literal{Loc: at, Value: "number"},
				},
				Then: &Binary{Loc: at, Op: "+", Left: val(), Right: &Literal{Loc: at, Value: unit}},
				Else: &Cond{
					Loc:  at,
					Test: &Binary{Loc: at, Op: "!=", Left: val(), Right: null()},
					Then: val(),
					Else: undef(),
				},
			},
		},
		Args: []Node{value},
	}
}
