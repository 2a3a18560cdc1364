package css

import "strings"

// Base priorities of the three property classes. Rules with a lower priority
// are emitted first so that more specific longhands win over shorthands.
const (
	PriorityShorthandOfShorthands = 1000
	PriorityShorthandOfLonghands  = 2000
	PriorityLonghand              = 3000
	PriorityPseudoElement         = 5000
)

var shorthandsOfShorthands = newPropertySet(
	"all",
	"animation",
	"background",
	"border",
	"borderBlock",
	"borderInline",
	"borderRadius",
	"columnRule",
	"columns",
	"container",
	"flex",
	"flexFlow",
	"font",
	"gap",
	"grid",
	"gridArea",
	"gridTemplate",
	"inset",
	"listStyle",
	"margin",
	"mask",
	"outline",
	"overflow",
	"padding",
	"placeContent",
	"placeItems",
	"placeSelf",
	"textDecoration",
	"transition",
)

var shorthandsOfLonghands = newPropertySet(
	"backgroundPosition",
	"borderBlockEnd",
	"borderBlockStart",
	"borderBottom",
	"borderColor",
	"borderInlineEnd",
	"borderInlineStart",
	"borderLeft",
	"borderRight",
	"borderStyle",
	"borderTop",
	"borderWidth",
	"gridColumn",
	"gridRow",
	"insetBlock",
	"insetInline",
	"marginBlock",
	"marginInline",
	"overscrollBehavior",
	"paddingBlock",
	"paddingInline",
	"scrollMargin",
	"scrollPadding",
)

// pseudoClassPriority orders interactive states so that, for example, an
// :active rule overrides a :hover rule declared alongside it.
var pseudoClassPriority = map[string]float64{
	":first-child":       52,
	":last-child":        54,
	":only-child":        56,
	":nth-child":         60,
	":nth-of-type":       61,
	":empty":             70,
	":link":              80,
	":any-link":          81,
	":local-link":        82,
	":target":            84,
	":visited":           85,
	":enabled":           91,
	":disabled":          92,
	":required":          93,
	":optional":          94,
	":read-only":         95,
	":read-write":        96,
	":placeholder-shown": 97,
	":checked":           101,
	":indeterminate":     102,
	":valid":             103,
	":invalid":           104,
	":in-range":          105,
	":out-of-range":      106,
	":default":           107,
	":user-invalid":      108,
	":focus-within":      140,
	":hover":             130,
	":focus":             150,
	":focus-visible":     160,
	":active":            170,
}

// atRulePriority gives the increment contributed by an at-rule condition.
var atRulePriority = map[string]float64{
	"@supports":  30,
	"@media":     200,
	"@container": 300,
}

// PropertyPriority returns the base priority of prop.
func PropertyPriority(prop string) float64 {
	switch {
	case IsCustomProperty(prop):
		return 1
	case shorthandsOfShorthands.has(prop):
		return PriorityShorthandOfShorthands
	case shorthandsOfLonghands.has(prop):
		return PriorityShorthandOfLonghands
	default:
		return PriorityLonghand
	}
}

// ConditionPriority returns the increment contributed by a single pseudo or
// at-rule condition segment.
func ConditionPriority(cond string) float64 {
	switch {
	case strings.HasPrefix(cond, "::"):
		return PriorityPseudoElement

	case IsPseudo(cond):
		name := cond
		if i := strings.IndexByte(cond, '('); i > 0 {
			name = cond[:i]
		}

		if p, ok := pseudoClassPriority[name]; ok {
			return p
		}

		return 40

	case IsAtRule(cond):
		name := cond
		if i := strings.IndexAny(cond, " ("); i > 0 {
			name = cond[:i]
		}

		if p, ok := atRulePriority[name]; ok {
			return p
		}

		return 30
	}

	return 0
}
