package lang

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jeongminsang/stylex/hash"
)

func evalPartial(t *testing.T, src string, st *State) PartialResult {
	t.Helper()

	obj, ok := mustParseExpr(t, src).(*ObjectExpr)
	if !ok {
		t.Fatalf("%q is not an object literal", src)
	}

	r, err := EvaluatePartialObject(t.Context(), obj, st, FunctionConfig{}, nil)
	if err != nil {
		t.Fatalf("EvaluatePartialObject() error = %v", err)
	}

	return r
}

// lookup follows path through nested objects.
func lookup(v any, path ...string) any {
	for _, k := range path {
		obj, ok := v.(*Object)
		if !ok {
			return nil
		}

		v, _ = obj.Get(k)
	}

	return v
}

func TestEvaluatePartialObject_Leaves(t *testing.T) {
	nested := "--" + hash.String(":hover_width")

	tests := []struct {
		name    string
		src     string
		path    []string
		want    any
		varName string
		wrapper Kind
	}{
		{
			name: "static leaf",
			src:  `{ color: "red", width: w }`,
			path: []string{"color"},
			want: "red",
		},
		{
			name:    "top-level dynamic leaf",
			src:     `{ color: c }`,
			path:    []string{"color"},
			want:    "var(--color)",
			varName: "--color",
			wrapper: KindCond,
		},
		{
			name:    "length property gets unit wrapper",
			src:     `{ width: w }`,
			path:    []string{"width"},
			want:    "var(--width)",
			varName: "--width",
			wrapper: KindCall,
		},
		{
			name:    "nested leaf hashes its path",
			src:     `{ ":hover": { width: w } }`,
			path:    []string{":hover", "width"},
			want:    "var(" + nested + ")",
			varName: nested,
			wrapper: KindCall,
		},
		{
			name:    "conditions inherit the property",
			src:     `{ width: { default: 10, "@media (min-width: 800px)": w } }`,
			path:    []string{"width", "@media (min-width: 800px)"},
			want:    "var(--" + hash.String("width_@media (min-width: 800px)") + ")",
			varName: "--" + hash.String("width_@media (min-width: 800px)"),
			wrapper: KindCall,
		},
		{
			name: "var key is unwrapped",
			src:  `{ "var(--x)": 1 }`,
			path: []string{"--x"},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := evalPartial(t, tt.src, nil)
			if !r.Confident {
				t.Fatalf("EvaluatePartialObject() deferred: %s", r.Reason)
			}

			if got := lookup(r.Value, tt.path...); got != tt.want {
				t.Errorf("value at %v = %#v, want %#v", tt.path, got, tt.want)
			}

			if tt.varName == "" {
				return
			}

			style, ok := r.InlineStyles[tt.varName]
			if !ok {
				t.Fatalf("InlineStyles has no %s: %v", tt.varName, r.InlineStyles)
			}

			if !reflect.DeepEqual(style.Path, tt.path) {
				t.Errorf("Path = %q, want %q", style.Path, tt.path)
			}

			if style.Original.Kind() != KindIdent {
				t.Errorf("Original = %s, want identifier", style.Original.Kind())
			}

			if style.Expression.Kind() != tt.wrapper {
				t.Errorf("Expression = %s, want %s", style.Expression.Kind(), tt.wrapper)
			}
		})
	}
}

func TestEvaluatePartialObject_Spread(t *testing.T) {
	st := &State{Constants: map[string]any{
		"base": objectOf("color", "blue", "width", 1.0),
	}}

	r := evalPartial(t, `{ color: "red", ...base, height: h }`, st)
	if !r.Confident {
		t.Fatalf("deferred: %s", r.Reason)
	}

	obj := r.Value.(*Object)

	if got := strings.Join(obj.Keys(), ","); got != "color,width,height" {
		t.Errorf("Keys() = %q", got)
	}

	if v, _ := obj.Get("color"); v != "blue" {
		t.Errorf("color = %v, want blue", v)
	}

	if len(r.InlineStyles) != 1 {
		t.Errorf("InlineStyles = %d, want 1", len(r.InlineStyles))
	}
}

func TestEvaluatePartialObject_Propagates(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		deopt Kind
	}{
		{"spread", `{ ...unknown, color: "red" }`, KindIdent},
		{"nested spread", `{ ":hover": { ...unknown } }`, KindIdent},
		{"computed key", `{ [key]: "red" }`, KindIdent},
		{"method", `{ color() { return "red" } }`, KindProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := evalPartial(t, tt.src, nil)
			if r.Confident {
				t.Fatalf("EvaluatePartialObject() confident, want deferred")
			}

			if r.Deopt == nil || r.Deopt.Kind() != tt.deopt {
				t.Errorf("Deopt = %v, want %s", r.Deopt, tt.deopt)
			}
		})
	}
}

func TestEvaluatePartialObject_Collision(t *testing.T) {
	// A top-level key spelled like the digest of a nested path synthesizes
	// the same variable name for two different leaves.
	st := &State{Constants: map[string]any{"k": hash.String("a_b")}}

	obj := mustParseExpr(t, `{ [k]: x, a: { b: y } }`).(*ObjectExpr)

	_, err := EvaluatePartialObject(t.Context(), obj, st, FunctionConfig{}, nil)
	if !errors.Is(err, ErrHashCollision) {
		t.Errorf("EvaluatePartialObject() error = %v, want ErrHashCollision", err)
	}
}

func TestEvaluatePartialObject_Structural(t *testing.T) {
	obj := &ObjectExpr{Entries: []Node{
		&Property{Key: &Ident{Name: "color"}, Value: &Spread{Arg: &Ident{Name: "x"}}},
	}}

	_, err := EvaluatePartialObject(t.Context(), obj, nil, FunctionConfig{}, nil)
	if !errors.Is(err, ErrStructural) {
		t.Errorf("EvaluatePartialObject() error = %v, want ErrStructural", err)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		path []string
		in   any
		want any
	}{
		{"length number", []string{"width"}, 10.0, "10px"},
		{"length string", []string{"width"}, "50%", "50%"},
		{"length null", []string{"width"}, nil, Undefined},
		{"length undefined", []string{"width"}, Undefined, Undefined},
		{"time number", []string{"transitionDuration"}, 200.0, "200ms"},
		{"pseudo before property", []string{":hover", "marginTop"}, 4.0, "4px"},
		{"plain number", []string{"opacity"}, 0.5, 0.5},
		{"plain null", []string{"color"}, nil, Undefined},
		{"plain zero", []string{"zIndex"}, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := tt.path[len(tt.path)-1]
			wrapped := coerce(tt.path, key, &Ident{Name: "v"})

			st := &State{Constants: map[string]any{"v": tt.in}}

			r, err := Evaluate(t.Context(), wrapped, st, FunctionConfig{})
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}

			if !r.Confident || r.Value != tt.want {
				t.Errorf("Evaluate() = %#v (confident %v), want %#v", r.Value, r.Confident, tt.want)
			}
		})
	}
}

func TestVarName(t *testing.T) {
	if got := VarName([]string{"color"}); got != "--color" {
		t.Errorf("VarName(color) = %q", got)
	}

	a := VarName([]string{":hover", "color"})
	b := VarName([]string{":focus", "color"})

	if a == b || !strings.HasPrefix(a, "--") {
		t.Errorf("VarName() = %q, %q; want distinct -- names", a, b)
	}
}
