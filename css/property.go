// Package css holds the static knowledge about CSS properties needed to
// evaluate and compile style objects: which properties take units, how a
// condition path resolves to its effective property, how property names are
// dash-cased, and how rules are prioritized.
package css

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// DefaultCondition is the path segment naming the unconditional value of a
// conditional style object.
const DefaultCondition = "default"

// IsPseudo reports whether key is a pseudo-class or pseudo-element segment.
func IsPseudo(key string) bool { return strings.HasPrefix(key, ":") }

// IsAtRule reports whether key is an at-rule segment such as a media query.
func IsAtRule(key string) bool { return strings.HasPrefix(key, "@") }

// IsCondition reports whether key is a condition segment rather than a
// property name.
func IsCondition(key string) bool {
	return key == DefaultCondition || IsPseudo(key) || IsAtRule(key)
}

// IsCustomProperty reports whether key names a CSS custom property.
func IsCustomProperty(key string) bool { return strings.HasPrefix(key, "--") }

// PropertyName returns the first segment of path that names a property, or
// fallback when every segment is a condition.
func PropertyName(path []string, fallback string) string {
	for _, key := range path {
		if !IsCondition(key) {
			return key
		}
	}

	return fallback
}

// vendorPrefixes are the camel-cased vendor prefixes recognized by [Dashify].
var vendorPrefixes = []string{"Webkit", "Moz", "ms", "O"}

// Dashify converts a camel-cased property name to its CSS spelling.
// Custom properties and names that are already dash-cased are returned
// unchanged.
func Dashify(prop string) string {
	if IsCustomProperty(prop) || strings.ContainsRune(prop, '-') {
		return prop
	}

	for _, vendor := range vendorPrefixes {
		rest, ok := strings.CutPrefix(prop, vendor)
		if ok && rest != "" && rest[0] >= 'A' && rest[0] <= 'Z' {
			return "-" + strings.ToLower(vendor) + "-" + strcase.ToKebab(rest)
		}
	}

	return strcase.ToKebab(prop)
}
