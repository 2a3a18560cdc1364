package css

// directionalProperties map legacy start/end properties to their physical
// left-to-right and right-to-left spellings.
var directionalProperties = map[string][2]string{
	"marginStart":             {"margin-left", "margin-right"},
	"marginEnd":               {"margin-right", "margin-left"},
	"paddingStart":            {"padding-left", "padding-right"},
	"paddingEnd":              {"padding-right", "padding-left"},
	"borderStartWidth":        {"border-left-width", "border-right-width"},
	"borderEndWidth":          {"border-right-width", "border-left-width"},
	"borderStartColor":        {"border-left-color", "border-right-color"},
	"borderEndColor":          {"border-right-color", "border-left-color"},
	"borderStartStyle":        {"border-left-style", "border-right-style"},
	"borderEndStyle":          {"border-right-style", "border-left-style"},
	"borderTopStartRadius":    {"border-top-left-radius", "border-top-right-radius"},
	"borderTopEndRadius":      {"border-top-right-radius", "border-top-left-radius"},
	"borderBottomStartRadius": {"border-bottom-left-radius", "border-bottom-right-radius"},
	"borderBottomEndRadius":   {"border-bottom-right-radius", "border-bottom-left-radius"},
	"start":                   {"left", "right"},
	"end":                     {"right", "left"},
}

// directionalValues lists properties whose start/end keyword values are
// mirrored.
var directionalValues = newPropertySet("clear", "float", "textAlign")

// Declaration is one CSS property/value pair in its final spelling.
type Declaration struct {
	Property string
	Value    string
}

// Directional returns the left-to-right declaration for prop and value and,
// when the declaration depends on writing direction, its right-to-left
// counterpart. The returned rtl is nil for direction-independent
// declarations.
func Directional(prop, value string) (ltr Declaration, rtl *Declaration) {
	if phys, ok := directionalProperties[prop]; ok {
		return Declaration{phys[0], value}, &Declaration{phys[1], value}
	}

	ltr = Declaration{Dashify(prop), value}

	if directionalValues.has(prop) {
		switch value {
		case "start":
			return Declaration{ltr.Property, "left"},
				&Declaration{ltr.Property, "right"}
		case "end":
			return Declaration{ltr.Property, "right"},
				&Declaration{ltr.Property, "left"}
		}
	}

	return ltr, nil
}
