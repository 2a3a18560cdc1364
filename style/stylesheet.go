package style

import (
	"cmp"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Ancestor selectors scoping rules that differ by writing direction.
const (
	ltrScope = `html:not([dir="rtl"])`
	rtlScope = `html[dir="rtl"]`
)

// Stylesheet renders injected styles as CSS, one rule per line, ordered by
// priority and then by class name.
//
// Classes with a right-to-left variant are emitted twice, each scoped to
// its writing direction.
func Stylesheet(styles InjectedStyles) string {
	classes := make([]string, 0, len(styles))
	for class := range styles {
		classes = append(classes, class)
	}

	slices.SortFunc(classes, func(a, b string) int {
		if c := cmp.Compare(styles[a].Priority, styles[b].Priority); c != 0 {
			return c
		}

		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}

		return 0
	})

	var sb strings.Builder

	for _, class := range classes {
		s := styles[class]

		if s.RTL == nil {
			sb.WriteString(s.LTR)
			sb.WriteByte('\n')

			continue
		}

		sb.WriteString(scope(s.LTR, class, ltrScope))
		sb.WriteByte('\n')
		sb.WriteString(scope(*s.RTL, class, rtlScope))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// scope inserts an ancestor selector in front of the class selector of rule.
func scope(rule, class, ancestor string) string {
	i := strings.Index(rule, "."+class)
	if i < 0 {
		return rule
	}

	return rule[:i] + ancestor + " " + rule[i:]
}
