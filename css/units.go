package css

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Unit suffixes appended to bare numeric values.
const (
	UnitTime   = "ms"
	UnitLength = "px"
)

// timeUnits lists properties whose numeric values are durations.
var timeUnits = newPropertySet(
	"animationDelay",
	"animationDuration",
	"transitionDelay",
	"transitionDuration",
)

// lengthUnits lists properties whose numeric values are lengths.
var lengthUnits = newPropertySet(
	"backgroundPositionX",
	"backgroundPositionY",
	"blockSize",
	"border",
	"borderBlockEnd",
	"borderBlockEndWidth",
	"borderBlockStart",
	"borderBlockStartWidth",
	"borderBlockWidth",
	"borderBottom",
	"borderBottomLeftRadius",
	"borderBottomRightRadius",
	"borderBottomWidth",
	"borderEndEndRadius",
	"borderEndStartRadius",
	"borderInlineEnd",
	"borderInlineEndWidth",
	"borderInlineStart",
	"borderInlineStartWidth",
	"borderInlineWidth",
	"borderLeft",
	"borderLeftWidth",
	"borderRadius",
	"borderRight",
	"borderRightWidth",
	"borderSpacing",
	"borderStartEndRadius",
	"borderStartStartRadius",
	"borderTop",
	"borderTopLeftRadius",
	"borderTopRightRadius",
	"borderTopWidth",
	"borderWidth",
	"bottom",
	"columnGap",
	"columnRuleWidth",
	"columnWidth",
	"containIntrinsicBlockSize",
	"containIntrinsicHeight",
	"containIntrinsicInlineSize",
	"containIntrinsicWidth",
	"flexBasis",
	"fontSize",
	"gap",
	"gridColumnGap",
	"gridGap",
	"gridRowGap",
	"height",
	"inlineSize",
	"inset",
	"insetBlock",
	"insetBlockEnd",
	"insetBlockStart",
	"insetInline",
	"insetInlineEnd",
	"insetInlineStart",
	"left",
	"letterSpacing",
	"margin",
	"marginBlock",
	"marginBlockEnd",
	"marginBlockStart",
	"marginBottom",
	"marginInline",
	"marginInlineEnd",
	"marginInlineStart",
	"marginLeft",
	"marginRight",
	"marginTop",
	"maxBlockSize",
	"maxHeight",
	"maxInlineSize",
	"maxWidth",
	"minBlockSize",
	"minHeight",
	"minInlineSize",
	"minWidth",
	"offsetDistance",
	"outlineOffset",
	"outlineWidth",
	"overflowClipMargin",
	"padding",
	"paddingBlock",
	"paddingBlockEnd",
	"paddingBlockStart",
	"paddingBottom",
	"paddingInline",
	"paddingInlineEnd",
	"paddingInlineStart",
	"paddingLeft",
	"paddingRight",
	"paddingTop",
	"perspective",
	"right",
	"rowGap",
	"scrollMargin",
	"scrollMarginBlock",
	"scrollMarginBlockEnd",
	"scrollMarginBlockStart",
	"scrollMarginBottom",
	"scrollMarginInline",
	"scrollMarginInlineEnd",
	"scrollMarginInlineStart",
	"scrollMarginLeft",
	"scrollMarginRight",
	"scrollMarginTop",
	"scrollPadding",
	"scrollPaddingBlock",
	"scrollPaddingBlockEnd",
	"scrollPaddingBlockStart",
	"scrollPaddingBottom",
	"scrollPaddingInline",
	"scrollPaddingInlineEnd",
	"scrollPaddingInlineStart",
	"scrollPaddingLeft",
	"scrollPaddingRight",
	"scrollPaddingTop",
	"shapeMargin",
	"textDecorationThickness",
	"textIndent",
	"textUnderlineOffset",
	"top",
	"transformOrigin",
	"width",
	"wordSpacing",
)

// unitless lists properties whose numeric values never take a unit.
var unitless = newPropertySet(
	"animationIterationCount",
	"aspectRatio",
	"borderImageOutset",
	"borderImageSlice",
	"borderImageWidth",
	"columnCount",
	"columns",
	"fillOpacity",
	"flex",
	"flexGrow",
	"flexShrink",
	"floodOpacity",
	"fontSizeAdjust",
	"fontWeight",
	"gridArea",
	"gridColumn",
	"gridColumnEnd",
	"gridColumnStart",
	"gridRow",
	"gridRowEnd",
	"gridRowStart",
	"initialLetter",
	"lineClamp",
	"lineHeight",
	"mathDepth",
	"opacity",
	"order",
	"orphans",
	"scale",
	"shapeImageThreshold",
	"stopOpacity",
	"strokeMiterlimit",
	"strokeOpacity",
	"strokeWidth",
	"tabSize",
	"widows",
	"zIndex",
	"zoom",
)

type propertySet map[string]struct{}

func newPropertySet(names ...string) propertySet {
	set := make(propertySet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}

// has reports whether name is in the set. Dash-cased names are accepted too.
func (s propertySet) has(name string) bool {
	if _, ok := s[name]; ok {
		return true
	}

	if strings.ContainsRune(name, '-') && !strings.HasPrefix(name, "--") {
		_, ok := s[strcase.ToLowerCamel(name)]

		return ok
	}

	return false
}

// IsTimeUnit reports whether numeric values of prop are durations.
func IsTimeUnit(prop string) bool { return timeUnits.has(prop) }

// IsLengthUnit reports whether numeric values of prop are lengths.
func IsLengthUnit(prop string) bool { return lengthUnits.has(prop) }

// IsUnitless reports whether numeric values of prop are emitted bare.
func IsUnitless(prop string) bool { return unitless.has(prop) }

// NumberSuffix returns the unit appended to bare numbers of prop, or the empty
// string if prop takes no unit.
func NumberSuffix(prop string) string {
	switch {
	case timeUnits.has(prop):
		return UnitTime
	case lengthUnits.has(prop):
		return UnitLength
	default:
		return ""
	}
}

// FormatNumber renders n as a CSS value for prop. Zero and unitless values
// are emitted bare, custom properties are never suffixed.
func FormatNumber(prop string, n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)

	if n == 0 || strings.HasPrefix(prop, "--") || unitless.has(prop) {
		return s
	}

	return s + NumberSuffix(prop)
}
