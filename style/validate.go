package style

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/jeongminsang/stylex/css"
	"github.com/jeongminsang/stylex/lang"
)

// ErrValidation reports a namespace whose shape cannot be compiled.
var ErrValidation = lang.NewError("invalid style namespace")

// Validate checks the shape of one evaluated namespace. Values must be
// strings, numbers, null, fallback arrays of those, or conditional objects
// keyed by "default", pseudo-classes, and at-rules. A top-level pseudo or
// at-rule key may hold an object of properties.
//
// The returned error matches [ErrValidation] and wraps every violation
// combined with multierr.
func Validate(ns *lang.Object) error {
	var err error

	for key, v := range ns.All() {
		path := []string{key}

		obj, isObj := v.(*lang.Object)
		if !css.IsCondition(key) || key == css.DefaultCondition {
			err = multierr.Append(err, validateProperty(path, v))

			continue
		}

		if !isObj {
			err = multierr.Append(err,
				violation(path, "condition must hold an object of properties"))

			continue
		}

		for prop, inner := range obj.All() {
			if css.IsCondition(prop) {
				err = multierr.Append(err,
					violation(append(path, prop), "expected a property name"))

				continue
			}

			err = multierr.Append(err, validateProperty(append(path, prop), inner))
		}
	}

	if err != nil {
		return ErrValidation.Wrap(err)
	}

	return nil
}

func validateProperty(path []string, v any) error {
	switch v := v.(type) {
	case nil, string, float64:
		return nil

	case []any:
		var err error

		for i, item := range v {
			switch item.(type) {
			case nil, string, float64:
			default:
				err = multierr.Append(err, violation(path,
					"fallback %d must be a string or number, got %s", i, describe(item)))
			}
		}

		return err

	case *lang.Object:
		var err error

		for cond, inner := range v.All() {
			p := append(path[:len(path):len(path)], cond)

			if !css.IsCondition(cond) {
				err = multierr.Append(err,
					violation(p, "expected default, a pseudo-class or an at-rule"))

				continue
			}

			err = multierr.Append(err, validateProperty(p, inner))
		}

		return err
	}

	if lang.IsNullish(v) {
		return nil
	}

	return violation(path, "unsupported style value %s", describe(v))
}

func violation(path []string, format string, args ...any) error {
	return fmt.Errorf("%s: "+format, append([]any{strings.Join(path, ".")}, args...)...)
}

func describe(v any) string {
	switch v := v.(type) {
	case bool:
		return fmt.Sprintf("boolean %t", v)
	case *lang.Closure:
		return "function " + v.String()
	case *lang.Object:
		return "object"
	case []any:
		return "array"
	}

	return fmt.Sprintf("%T", v)
}
