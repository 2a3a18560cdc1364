package lang

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	"github.com/goccy/go-yaml"
)

// Object is an insertion-ordered string-keyed mapping with object-literal
// semantics: assigning an existing key replaces its value but keeps its
// original position.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// Set assigns value to key.
func (o *Object) Set(key string, value any) {
	if o.vals == nil {
		o.vals = make(map[string]any)
	}

	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = value
}

// Get returns the value assigned to key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}

	v, ok := o.vals[key]

	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All returns an iterator over the entries in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil {
			return
		}

		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

// Merge assigns every entry of src to o in src's order.
func (o *Object) Merge(src *Object) {
	for k, v := range src.All() {
		o.Set(k, v)
	}
}

// Map converts o to a plain map, recursively converting nested objects.
func (o *Object) Map() map[string]any {
	m := make(map[string]any, o.Len())
	for k, v := range o.All() {
		m[k] = plain(v)
	}

	return m
}

func plain(v any) any {
	switch v := v.(type) {
	case *Object:
		return v.Map()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = plain(e)
		}

		return out
	case undefined:
		return nil
	}

	return v
}

// MarshalJSON encodes o as a JSON object preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}

		val, err := marshalJSON(o.vals[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes o as a YAML mapping preserving key order.
func (o *Object) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, o.Len())
	for k, v := range o.All() {
		ms = append(ms, yaml.MapItem{Key: k, Value: v})
	}

	return ms, nil
}

// undefined is the type of [Undefined].
type undefined struct{}

// Undefined is the value of the `undefined` identifier. It is distinct from
// nil, which represents `null`, but both are nullish.
var Undefined any = undefined{}

func (undefined) String() string { return "undefined" }

func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (undefined) MarshalYAML() (any, error) { return nil, nil }

// IsNullish reports whether v is null or undefined.
func IsNullish(v any) bool {
	if v == nil {
		return true
	}

	_, ok := v.(undefined)

	return ok
}

// Func is a Go function made callable from evaluated expressions.
type Func func(args ...any) (any, error)

// Closure is the value of an arrow function literal. It captures the scope it
// was evaluated in.
type Closure struct {
	Lambda *Lambda

	env *env
	fns FunctionConfig
}

// Params returns the declared parameter names. Non-identifier parameters are
// reported by their source text.
func (c *Closure) Params() []string {
	names := make([]string, len(c.Lambda.Params))
	for i, p := range c.Lambda.Params {
		switch p := p.(type) {
		case *Ident:
			names[i] = p.Name
		case *Pattern:
			names[i] = p.Source
		}
	}

	return names
}

func (c *Closure) String() string { return Print(c.Lambda) }

// MarshalJSON encodes the closure as its source text.
func (c *Closure) MarshalJSON() ([]byte, error) {
	return marshalJSON(c.String())
}

// marshalJSON encodes v without escaping HTML characters, which appear in
// printed source such as "=>".
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalYAML encodes the closure as its source text.
func (c *Closure) MarshalYAML() (any, error) { return c.String(), nil }
