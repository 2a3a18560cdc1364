package style

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/jeongminsang/stylex/css"
	"github.com/jeongminsang/stylex/hash"
	"github.com/jeongminsang/stylex/lang"
)

// CSSMarker is the key added to every compiled namespace so the runtime can
// tell compiled styles from raw ones.
const CSSMarker = "$$css"

// Namespace is a named raw style object.
type Namespace struct {
	Name   string
	Styles *lang.Object
}

// CompiledNamespace maps each namespace key to its space-separated class
// names, or to nil when the key produced no class.
type CompiledNamespace struct {
	Name    string
	keys    []string
	classes map[string]*string
}

func (n *CompiledNamespace) set(key string, class *string) {
	if n.classes == nil {
		n.classes = make(map[string]*string)
	}

	if _, ok := n.classes[key]; !ok {
		n.keys = append(n.keys, key)
	}

	n.classes[key] = class
}

// Keys returns the compiled keys in order.
func (n *CompiledNamespace) Keys() []string { return slices.Clone(n.keys) }

// Class returns the class names compiled for key.
func (n *CompiledNamespace) Class(key string) (*string, bool) {
	c, ok := n.classes[key]

	return c, ok
}

// Object returns n as an ordered object ending with the [CSSMarker] entry.
func (n *CompiledNamespace) Object() *lang.Object {
	obj := lang.NewObject()

	for _, k := range n.keys {
		if c := n.classes[k]; c != nil {
			obj.Set(k, *c)
		} else {
			obj.Set(k, nil)
		}
	}

	obj.Set(CSSMarker, true)

	return obj
}

// MarshalJSON encodes n with its marker.
func (n *CompiledNamespace) MarshalJSON() ([]byte, error) {
	return n.Object().MarshalJSON()
}

// MarshalYAML encodes n with its marker.
func (n *CompiledNamespace) MarshalYAML() (any, error) {
	return n.Object().MarshalYAML()
}

// CompiledNamespaces lists compiled namespaces in input order.
type CompiledNamespaces []*CompiledNamespace

// Lookup returns the namespace called name.
func (c CompiledNamespaces) Lookup(name string) (*CompiledNamespace, bool) {
	for _, n := range c {
		if n.Name == name {
			return n, true
		}
	}

	return nil, false
}

// Object returns c as an ordered object keyed by namespace name.
func (c CompiledNamespaces) Object() *lang.Object {
	obj := lang.NewObject()
	for _, n := range c {
		obj.Set(n.Name, n)
	}

	return obj
}

// MarshalJSON encodes c as an object in namespace order.
func (c CompiledNamespaces) MarshalJSON() ([]byte, error) {
	return c.Object().MarshalJSON()
}

// MarshalYAML encodes c as a mapping in namespace order.
func (c CompiledNamespaces) MarshalYAML() (any, error) {
	return c.Object().MarshalYAML()
}

// InjectedStyles maps class names to their CSS.
type InjectedStyles map[string]InjectableStyle

// ClassPaths maps namespace names to the origin path of each class.
type ClassPaths map[string]map[string][]string

// Create compiles namespaces into atomic classes.
//
// Within a namespace a repeated key keeps its last value and takes the
// position of its last occurrence. Classes shared by several namespaces are
// injected once, with the content computed first.
func Create(
	ctx context.Context,
	namespaces []Namespace,
	opts Options,
) (CompiledNamespaces, InjectedStyles, ClassPaths, error) {
	compiled := make(CompiledNamespaces, 0, len(namespaces))
	injected := make(InjectedStyles)
	paths := make(ClassPaths, len(namespaces))

	for _, ns := range namespaces {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}

		if err := Validate(ns.Styles); err != nil {
			return nil, nil, nil, lang.WrapError(err).
				With(slog.String("namespace", ns.Name))
		}

		entries, err := opts.flattener().Flatten(ns.Styles, opts)
		if err != nil {
			return nil, nil, nil, lang.WrapError(err).
				With(slog.String("namespace", ns.Name))
		}

		entries = lastWrites(entries)

		out := &CompiledNamespace{Name: ns.Name}
		classPaths := make(map[string][]string)
		minified := make(map[string]string)

		for _, e := range entries {
			key := e.Key

			if opts.EnableMinifiedKeys && !css.IsCustomProperty(key) {
				key = minifyKey(key, opts.Debug)

				if prev, ok := minified[key]; ok && prev != e.Key {
					return nil, nil, nil, lang.ErrHashCollision.
						With(
							slog.String("namespace", ns.Name),
							slog.String("key", key),
							slog.String("first", prev),
							slog.String("second", e.Key),
						)
				}

				minified[key] = e.Key
			}

			var classes []string

			for _, tuple := range e.Rule.Compile(opts) {
				if tuple == nil {
					continue
				}

				for class, path := range tuple.Paths {
					classPaths[class] = path
				}

				if !slices.Contains(classes, tuple.ClassName) {
					classes = append(classes, tuple.ClassName)
				}

				if _, ok := injected[tuple.ClassName]; !ok {
					injected[tuple.ClassName] = tuple.Style

					opts.Logger.TraceContext(ctx, "class injected",
						slog.String("class", tuple.ClassName),
						slog.String("css", tuple.Style.LTR))
				}
			}

			if len(classes) == 0 {
				out.set(key, nil)

				continue
			}

			joined := strings.Join(classes, " ")
			out.set(key, &joined)
		}

		compiled = append(compiled, out)
		paths[ns.Name] = classPaths

		opts.Logger.DebugContext(ctx, "namespace compiled",
			slog.String("namespace", ns.Name),
			slog.Int("keys", len(out.keys)),
			slog.Int("classes", len(classPaths)))
	}

	return compiled, injected, paths, nil
}

// lastWrites removes duplicate keys, keeping each key's last occurrence at
// the position of that occurrence.
func lastWrites(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		if _, ok := seen[entries[i].Key]; ok {
			continue
		}

		seen[entries[i].Key] = struct{}{}

		out = append(out, entries[i])
	}

	slices.Reverse(out)

	return out
}

func minifyKey(key string, debug bool) string {
	h := "k" + hash.Short("<>"+key)
	if debug {
		return key + "-" + h
	}

	return h
}
