package style

import (
	"slices"
	"strings"

	"github.com/jeongminsang/stylex/css"
	"github.com/jeongminsang/stylex/hash"
)

// PreRule is one flattened style declaration that has not been compiled to
// classes yet.
type PreRule interface {
	Compile(opts Options) ComputedStyle
}

// ComputedStyle is the outcome of compiling a [PreRule]. A nil element
// stands for a value that produces no class.
type ComputedStyle []*ClassTuple

// ClassTuple is one atomic class with its CSS and the namespace paths it was
// generated from.
type ClassTuple struct {
	ClassName string
	Style     InjectableStyle
	Paths     map[string][]string
}

// InjectableStyle is the CSS text of one atomic class. LTR holds the primary
// rule and RTL the mirrored rule for right-to-left documents, if any.
type InjectableStyle struct {
	LTR      string  `json:"ltr"           yaml:"ltr"`
	RTL      *string `json:"rtl,omitempty" yaml:"rtl,omitempty"`
	Priority float64 `json:"priority"      yaml:"priority"`
}

// NullRule is a declaration explicitly set to null. It compiles to a single
// nil element, so its key maps to no class.
type NullRule struct{}

// Compile implements [PreRule].
func (NullRule) Compile(Options) ComputedStyle { return ComputedStyle{nil} }

// RuleSet groups the conditional values of one property.
type RuleSet struct {
	Rules []PreRule
}

// Compile implements [PreRule].
func (s *RuleSet) Compile(opts Options) ComputedStyle {
	var out ComputedStyle
	for _, r := range s.Rules {
		out = append(out, r.Compile(opts)...)
	}

	return out
}

// Rule is a single property value under a list of conditions.
type Rule struct {
	// Property is the camel-cased or custom property name.
	Property string
	// Value is a string, a number, or a []any of fallback values.
	Value any
	// Path is the key path of the value in its namespace.
	Path []string
	// Pseudos and AtRules are the conditions in declaration order.
	Pseudos []string
	AtRules []string
}

// Compile implements [PreRule].
func (r *Rule) Compile(opts Options) ComputedStyle {
	values := r.values()
	if len(values) == 0 {
		return ComputedStyle{nil}
	}

	class := opts.prefix() + hash.String("<>"+
		css.Dashify(r.Property)+
		strings.Join(values, ", ")+
		strings.Join(r.Pseudos, "")+
		strings.Join(r.AtRules, ""))

	ltr, rtl := r.declarations(values)

	style := InjectableStyle{
		LTR:      r.text(class, ltr),
		Priority: r.priority(),
	}

	if rtl != "" {
		text := r.text(class, rtl)
		style.RTL = &text
	}

	return ComputedStyle{{
		ClassName: class,
		Style:     style,
		Paths:     map[string][]string{class: slices.Clone(r.Path)},
	}}
}

// values returns the CSS spelling of each value, skipping null fallbacks.
func (r *Rule) values() []string {
	switch v := r.Value.(type) {
	case string:
		return []string{v}
	case float64:
		return []string{css.FormatNumber(r.Property, v)}
	case []any:
		out := make([]string, 0, len(v))

		for _, item := range v {
			switch item := item.(type) {
			case string:
				out = append(out, item)
			case float64:
				out = append(out, css.FormatNumber(r.Property, item))
			}
		}

		return out
	}

	return nil
}

// declarations returns the declaration block for each direction. The
// right-to-left block is empty unless some declaration is mirrored.
func (r *Rule) declarations(values []string) (ltr, rtl string) {
	lb := make([]string, 0, len(values))
	rb := make([]string, 0, len(values))
	mirrored := false

	for _, v := range values {
		l, m := css.Directional(r.Property, v)
		lb = append(lb, l.Property+":"+l.Value)

		if m == nil {
			rb = append(rb, l.Property+":"+l.Value)

			continue
		}

		mirrored = true
		rb = append(rb, m.Property+":"+m.Value)
	}

	if !mirrored {
		return strings.Join(lb, ";"), ""
	}

	return strings.Join(lb, ";"), strings.Join(rb, ";")
}

// text wraps a declaration block in the class selector and at-rules. Inside
// at-rules the class is doubled to outrank the unconditional rule.
func (r *Rule) text(class, decls string) string {
	sel := "." + class
	if len(r.AtRules) > 0 {
		sel += "." + class
	}

	text := sel + strings.Join(r.Pseudos, "") + "{" + decls + "}"

	for i := len(r.AtRules) - 1; i >= 0; i-- {
		text = r.AtRules[i] + "{" + text + "}"
	}

	return text
}

func (r *Rule) priority() float64 {
	p := css.PropertyPriority(r.Property)

	for _, c := range r.Pseudos {
		p += css.ConditionPriority(c)
	}

	for _, c := range r.AtRules {
		p += css.ConditionPriority(c)
	}

	return p
}
