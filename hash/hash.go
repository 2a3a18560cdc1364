// Package hash derives the short, stable identifiers used for atomic class
// names, minified namespace keys, and synthesized CSS variable names.
//
// Every function is a pure function of its input. Digests are computed with
// XXH3 and rendered in base36 so they are valid inside CSS identifiers.
package hash

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// shortSpace bounds [Short] digests to at most five base36 digits' worth of
// entropy, the width the runtime expects for minified keys.
const shortSpace = 62 * 62 * 62 * 62 * 62

// String returns the base36 rendering of the 64-bit XXH3 digest of s.
func String(s string) string {
	return strconv.FormatUint(xxh3.HashString(s), 36)
}

// Short returns a compact base36 digest of s suitable for minified keys.
func Short(s string) string {
	return strconv.FormatUint(xxh3.HashString(s)%shortSpace, 36)
}
