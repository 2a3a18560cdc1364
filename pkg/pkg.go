//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version of the module embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version without surrounding space.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text and default config
	// paths.
	Name = "stylec"
	// Description is a short summary used in help output.
	Description = "Atomic CSS compiler for statically resolvable style definitions"
)
