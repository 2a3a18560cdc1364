package style

import "github.com/jeongminsang/stylex/log"

// DefaultClassNamePrefix is prepended to every generated class name.
const DefaultClassNamePrefix = "x"

// Options control namespace compilation.
type Options struct {
	// EnableMinifiedKeys replaces namespace keys with short hashes.
	EnableMinifiedKeys bool `yaml:"minify-keys"`
	// Debug keeps the readable key in front of its hash when minifying.
	Debug bool `yaml:"debug"`
	// ClassNamePrefix is prepended to generated class names.
	ClassNamePrefix string `yaml:"prefix"`
	// Flattener expands raw style objects. Nil selects [DefaultFlattener].
	Flattener Flattener `yaml:"-"`

	Logger log.Logger `yaml:"-"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{ClassNamePrefix: DefaultClassNamePrefix}
}

func (o Options) prefix() string {
	if o.ClassNamePrefix == "" {
		return DefaultClassNamePrefix
	}

	return o.ClassNamePrefix
}

func (o Options) flattener() Flattener {
	if o.Flattener == nil {
		return DefaultFlattener{}
	}

	return o.Flattener
}
