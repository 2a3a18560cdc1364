package style

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/multierr"

	"github.com/jeongminsang/stylex/hash"
	"github.com/jeongminsang/stylex/lang"
)

// obj builds an ordered object from alternating keys and values.
func obj(kv ...any) *lang.Object {
	o := lang.NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1])
	}

	return o
}

// entries is a Flattener returning a fixed entry list.
type entries []Entry

func (e entries) Flatten(*lang.Object, Options) ([]Entry, error) { return e, nil }

func create(t *testing.T, opts Options, ns ...Namespace) (CompiledNamespaces, InjectedStyles, ClassPaths) {
	t.Helper()

	compiled, injected, paths, err := Create(t.Context(), ns, opts)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	return compiled, injected, paths
}

func classOf(t *testing.T, n *CompiledNamespace, key string) string {
	t.Helper()

	c, ok := n.Class(key)
	if !ok {
		t.Fatalf("namespace %s has no key %q (keys %q)", n.Name, key, n.Keys())
	}

	if c == nil {
		t.Fatalf("namespace %s key %q is null", n.Name, key)
	}

	return *c
}

func TestCreate_LastWriteWins(t *testing.T) {
	rule := func(v string) PreRule { return &Rule{Property: "color", Value: v, Path: []string{"color"}} }

	opts := DefaultOptions()
	opts.Flattener = entries{
		{Key: "a", Rule: rule("red")},
		{Key: "b", Rule: rule("blue")},
		{Key: "a", Rule: rule("green")},
	}

	compiled, injected, _ := create(t, opts, Namespace{Name: "ns", Styles: obj()})

	n := compiled[0]
	if got := strings.Join(n.Keys(), ","); got != "b,a" {
		t.Errorf("Keys() = %q, want b,a", got)
	}

	want := rule("green").Compile(opts)[0].ClassName
	if got := classOf(t, n, "a"); got != want {
		t.Errorf("a = %q, want class of green %q", got, want)
	}

	if _, ok := injected[rule("red").Compile(opts)[0].ClassName]; ok {
		t.Error("overwritten value was injected")
	}
}

func TestCreate_GlobalDedup(t *testing.T) {
	compiled, injected, _ := create(t, DefaultOptions(),
		Namespace{Name: "one", Styles: obj("color", "red", "margin", 0.0)},
		Namespace{Name: "two", Styles: obj("color", "red")},
	)

	if len(injected) != 2 {
		t.Errorf("injected %d classes, want 2", len(injected))
	}

	one := classOf(t, compiled[0], "color")
	two := classOf(t, compiled[1], "color")

	if one != two {
		t.Errorf("shared class differs: %q != %q", one, two)
	}

	if got := injected[one].LTR; got != "."+one+"{color:red}" {
		t.Errorf("LTR = %q", got)
	}
}

func TestCreate_NullForEmpty(t *testing.T) {
	compiled, injected, _ := create(t, DefaultOptions(), Namespace{
		Name:   "ns",
		Styles: obj("color", nil, "width", []any{nil}, "height", lang.Undefined),
	})

	for _, key := range []string{"color", "width", "height"} {
		c, ok := compiled[0].Class(key)
		if !ok || c != nil {
			t.Errorf("%s = %v (present %v), want null", key, c, ok)
		}
	}

	if len(injected) != 0 {
		t.Errorf("injected %d classes, want 0", len(injected))
	}

	b, err := json.Marshal(compiled)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if want := `{"ns":{"color":null,"width":null,"height":null,"$$css":true}}`; string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestCreate_MinifiedKeys(t *testing.T) {
	ns := Namespace{Name: "ns", Styles: obj("color", "red", "--foo", "blue")}
	h := "k" + hash.Short("<>color")

	tests := []struct {
		name  string
		debug bool
		want  []string
	}{
		{"minified", false, []string{h, "--foo"}},
		{"debug", true, []string{"color-" + h, "--foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.EnableMinifiedKeys = true
			opts.Debug = tt.debug

			compiled, _, _ := create(t, opts, ns)

			if got := compiled[0].Keys(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keys() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreate_MinifiedKeyCollision(t *testing.T) {
	seen := make(map[string]string)

	var a, b string

	for i := 0; b == ""; i++ {
		if i > 1_000_000 {
			t.Skip("no short hash collision found")
		}

		key := fmt.Sprintf("p%d", i)
		h := hash.Short("<>" + key)

		if prev, ok := seen[h]; ok {
			a, b = prev, key
		}

		seen[h] = key
	}

	opts := DefaultOptions()
	opts.EnableMinifiedKeys = true

	_, _, _, err := Create(t.Context(),
		[]Namespace{{Name: "ns", Styles: obj(a, "1", b, "2")}}, opts)
	if !errors.Is(err, lang.ErrHashCollision) {
		t.Errorf("Create() error = %v, want ErrHashCollision", err)
	}

	opts.Debug = true

	if _, _, _, err := Create(t.Context(),
		[]Namespace{{Name: "ns", Styles: obj(a, "1", b, "2")}}, opts); err != nil {
		t.Errorf("Create() with readable keys error = %v", err)
	}
}

func TestCreate_ClassPaths(t *testing.T) {
	compiled, _, paths := create(t, DefaultOptions(), Namespace{
		Name: "button",
		Styles: obj(
			"color", obj("default", "red", ":hover", "blue"),
			":focus", obj("outline", "none"),
		),
	})

	n := compiled[0]

	if got := strings.Join(n.Keys(), ","); got != "color,:focus_outline" {
		t.Fatalf("Keys() = %q", got)
	}

	classes := strings.Fields(classOf(t, n, "color"))
	if len(classes) != 2 {
		t.Fatalf("color = %q, want two classes", classes)
	}

	want := [][]string{{"color", "default"}, {"color", ":hover"}}
	for i, class := range classes {
		if got := paths["button"][class]; !reflect.DeepEqual(got, want[i]) {
			t.Errorf("path of %s = %q, want %q", class, got, want[i])
		}
	}

	focus := classOf(t, n, ":focus_outline")
	if got := paths["button"][focus]; !reflect.DeepEqual(got, []string{":focus", "outline"}) {
		t.Errorf("path of %s = %q", focus, got)
	}
}

func TestCreate_Validation(t *testing.T) {
	ns := Namespace{Name: "ns", Styles: obj(
		"color", true,
		":hover", "red",
		"width", obj("wide", 1.0),
		"margin", []any{"1px", obj()},
		"padding", 4.0,
	)}

	_, _, _, err := Create(t.Context(), []Namespace{ns}, DefaultOptions())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}

	if got := len(multierr.Errors(errors.Unwrap(err))); got != 4 {
		t.Errorf("violations = %d, want 4: %v", got, err)
	}

	for _, path := range []string{"color", ":hover", "width.wide", "margin"} {
		if !strings.Contains(err.Error(), path+":") {
			t.Errorf("error %q does not mention %s", err, path)
		}
	}
}

func TestCreate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, _, err := Create(ctx, []Namespace{{Name: "ns", Styles: obj("color", "red")}}, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Create() error = %v, want context.Canceled", err)
	}
}

func TestCreate_Deterministic(t *testing.T) {
	props := []string{"color", "marginStart", "width", "transitionDuration", "--accent"}

	build := func(values []string) []Namespace {
		ns := lang.NewObject()

		for i, v := range values {
			key := props[i%len(props)]

			switch i % 3 {
			case 0:
				ns.Set(key, v)
			case 1:
				ns.Set(key, float64(len(v)))
			default:
				ns.Set(key, obj("default", v, ":hover", v+"!", "@media print", nil))
			}
		}

		return []Namespace{{Name: "a", Styles: ns}, {Name: "b", Styles: ns}}
	}

	render := func(values []string, minify bool) string {
		opts := DefaultOptions()
		opts.EnableMinifiedKeys = minify

		compiled, injected, paths, err := Create(t.Context(), build(values), opts)
		if err != nil {
			return err.Error()
		}

		b, err := json.Marshal([]any{compiled, injected, paths})
		if err != nil {
			return err.Error()
		}

		return string(b)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Create is a pure function of its input", prop.ForAll(
		func(values []string, minify bool) bool {
			return render(values, minify) == render(values, minify)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
