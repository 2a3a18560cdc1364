package style

import (
	"log/slog"
	"slices"

	"github.com/jeongminsang/stylex/css"
	"github.com/jeongminsang/stylex/lang"
)

// Entry is one flattened namespace key and the rule it compiles from.
type Entry struct {
	Key  string
	Rule PreRule
}

// Flattener expands a raw style object into flat entries, depth-first and in
// declaration order.
type Flattener interface {
	Flatten(ns *lang.Object, opts Options) ([]Entry, error)
}

// DefaultFlattener expands conditional objects into rule sets and the legacy
// top-level condition form into one entry per inner property. It does not
// expand shorthands.
type DefaultFlattener struct{}

// Flatten implements [Flattener].
func (DefaultFlattener) Flatten(ns *lang.Object, _ Options) ([]Entry, error) {
	entries := make([]Entry, 0, ns.Len())

	for key, v := range ns.All() {
		obj, ok := v.(*lang.Object)
		if !ok || !css.IsCondition(key) || key == css.DefaultCondition {
			rule, err := flattenValue(key, []string{key}, nil, nil, v)
			if err != nil {
				return nil, err
			}

			entries = append(entries, Entry{Key: key, Rule: rule})

			continue
		}

		// {":hover": {color: "red"}} is keyed ":hover_color".
		pseudos, atRules := appendCondition(nil, nil, key)

		for prop, inner := range obj.All() {
			rule, err := flattenValue(prop, []string{key, prop}, pseudos, atRules, inner)
			if err != nil {
				return nil, err
			}

			entries = append(entries, Entry{Key: key + "_" + prop, Rule: rule})
		}
	}

	return entries, nil
}

func flattenValue(prop string, path, pseudos, atRules []string, v any) (PreRule, error) {
	if lang.IsNullish(v) {
		return NullRule{}, nil
	}

	switch v := v.(type) {
	case string, float64, []any:
		return &Rule{
			Property: prop,
			Value:    v,
			Path:     path,
			Pseudos:  pseudos,
			AtRules:  atRules,
		}, nil

	case *lang.Object:
		set := &RuleSet{}

		for cond, inner := range v.All() {
			p, a := appendCondition(pseudos, atRules, cond)

			rule, err := flattenValue(prop, append(slices.Clip(path), cond), p, a, inner)
			if err != nil {
				return nil, err
			}

			set.Rules = append(set.Rules, rule)
		}

		return set, nil
	}

	return nil, ErrValidation.
		Wrap(violation(path, "unsupported style value %s", describe(v))).
		With(slog.String("property", prop))
}

func appendCondition(pseudos, atRules []string, cond string) ([]string, []string) {
	switch {
	case css.IsPseudo(cond):
		pseudos = append(slices.Clip(pseudos), cond)
	case css.IsAtRule(cond):
		atRules = append(slices.Clip(atRules), cond)
	}

	return pseudos, atRules
}
