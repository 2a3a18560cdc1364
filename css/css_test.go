package css

import "testing"

func TestPropertyName(t *testing.T) {
	tests := []struct {
		name     string
		path     []string
		fallback string
		want     string
	}{
		{"top level", []string{"width"}, "width", "width"},
		{"nested default", []string{"width", "default"}, "default", "width"},
		{"pseudo first", []string{":hover", "color"}, "color", "color"},
		{"at-rule chain", []string{"@media (min-width: 1px)", ":hover", "margin"}, "margin", "margin"},
		{"only conditions", []string{":hover", "default"}, "x", "x"},
		{"empty", nil, "fallback", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PropertyName(tt.path, tt.fallback); got != tt.want {
				t.Errorf("PropertyName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNumberSuffix(t *testing.T) {
	tests := []struct {
		prop string
		want string
	}{
		{"width", UnitLength},
		{"marginInlineStart", UnitLength},
		{"margin-top", UnitLength},
		{"transitionDuration", UnitTime},
		{"animation-delay", UnitTime},
		{"color", ""},
		{"opacity", ""},
		{"--width", ""},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			if got := NumberSuffix(tt.prop); got != tt.want {
				t.Errorf("NumberSuffix(%q) = %q, want %q", tt.prop, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		prop string
		n    float64
		want string
	}{
		{"width", 10, "10px"},
		{"width", 0, "0"},
		{"width", 1.5, "1.5px"},
		{"transitionDuration", 300, "300ms"},
		{"opacity", 0.5, "0.5"},
		{"zIndex", 3, "3"},
		{"--size", 4, "4"},
		{"color", 1, "1"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.prop, tt.n); got != tt.want {
			t.Errorf("FormatNumber(%q, %v) = %q, want %q", tt.prop, tt.n, got, tt.want)
		}
	}
}

func TestDashify(t *testing.T) {
	tests := map[string]string{
		"color":               "color",
		"backgroundColor":     "background-color",
		"borderTopLeftRadius": "border-top-left-radius",
		"WebkitAppearance":    "-webkit-appearance",
		"msOverflowStyle":     "-ms-overflow-style",
		"mask":                "mask",
		"--custom-prop":       "--custom-prop",
		"margin-top":          "margin-top",
	}

	for in, want := range tests {
		if got := Dashify(in); got != want {
			t.Errorf("Dashify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConditionPriority(t *testing.T) {
	if ConditionPriority(":active") <= ConditionPriority(":hover") {
		t.Error(":active must sort after :hover")
	}

	if ConditionPriority("@media (max-width: 10px)") != 200 {
		t.Errorf("unexpected @media priority %v", ConditionPriority("@media (max-width: 10px)"))
	}

	if ConditionPriority("::before") != PriorityPseudoElement {
		t.Error("pseudo-elements must use the pseudo-element priority")
	}

	if ConditionPriority(":nth-child(2n)") != 60 {
		t.Error("functional pseudo-classes must resolve by name")
	}
}

func TestPropertyPriority(t *testing.T) {
	if !(PropertyPriority("margin") < PropertyPriority("marginBlock") &&
		PropertyPriority("marginBlock") < PropertyPriority("marginTop")) {
		t.Error("shorthands must sort before longhands")
	}
}

func TestDirectional(t *testing.T) {
	ltr, rtl := Directional("marginStart", "4px")
	if ltr.Property != "margin-left" || rtl == nil || rtl.Property != "margin-right" {
		t.Errorf("marginStart: got %v / %v", ltr, rtl)
	}

	ltr, rtl = Directional("textAlign", "start")
	if ltr.Value != "left" || rtl == nil || rtl.Value != "right" {
		t.Errorf("textAlign start: got %v / %v", ltr, rtl)
	}

	ltr, rtl = Directional("backgroundColor", "red")
	if ltr.Property != "background-color" || rtl != nil {
		t.Errorf("backgroundColor: got %v / %v", ltr, rtl)
	}
}
