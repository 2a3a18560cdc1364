package lang

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestObject_Order(t *testing.T) {
	obj := NewObject()
	obj.Set("b", 1.0)
	obj.Set("a", 2.0)
	obj.Set("b", 3.0)

	if got := strings.Join(obj.Keys(), ","); got != "b,a" {
		t.Errorf("Keys() = %q, want %q", got, "b,a")
	}

	if v, _ := obj.Get("b"); v != 3.0 {
		t.Errorf("Get(b) = %v, want 3", v)
	}

	var zero Object

	zero.Set("x", 1.0)

	if zero.Len() != 1 {
		t.Errorf("zero Object Len() = %d, want 1", zero.Len())
	}

	var nilObj *Object

	if nilObj.Len() != 0 || nilObj.Keys() != nil {
		t.Error("nil Object not empty")
	}
}

func TestObject_Merge(t *testing.T) {
	dst := objectOf("a", 1.0, "b", 2.0)
	dst.Merge(objectOf("c", 3.0, "a", 4.0))

	want := map[string]any{"a": 4.0, "b": 2.0, "c": 3.0}
	if got := dst.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}

	if got := strings.Join(dst.Keys(), ","); got != "a,b,c" {
		t.Errorf("Keys() = %q", got)
	}
}

func TestObject_Marshal(t *testing.T) {
	obj := objectOf(
		"z", "last",
		"a", objectOf("nested", nil),
		"u", Undefined,
		"l", []any{"x", 1.5},
	)

	b, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	if want := `{"z":"last","a":{"nested":null},"u":null,"l":["x",1.5]}`; string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}

	y, err := yaml.Marshal(objectOf("z", "last", "a", "first"))
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	if want := "z: last\na: first\n"; string(y) != want {
		t.Errorf("yaml = %q, want %q", y, want)
	}
}

func TestIsNullish(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{Undefined, true},
		{0.0, false},
		{"", false},
		{false, false},
	}

	for _, tt := range tests {
		if got := IsNullish(tt.v); got != tt.want {
			t.Errorf("IsNullish(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClosure(t *testing.T) {
	r, err := Evaluate(t.Context(), mustParseExpr(t, `(a, b) => ({ color: a })`), nil, FunctionConfig{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	c, ok := r.Value.(*Closure)
	if !ok {
		t.Fatalf("Value = %T, want *Closure", r.Value)
	}

	if got := strings.Join(c.Params(), ","); got != "a,b" {
		t.Errorf("Params() = %q", got)
	}

	b, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if want := `"(a, b) => ({ color: a })"`; string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}
