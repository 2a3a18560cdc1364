package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/jeongminsang/stylex/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings are flattened by joining keys with "-", so both of these
// set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use "_" in place of "-". Scalars are passed to kong as strings,
// sequences as lists of strings and mappings below a flag name (such as
// define) as string maps. Command-line flags override config file values.
//
// A file that is not valid YAML is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened YAML documents.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			// A mapping is also kept whole for map-typed flags.
			c[key] = stringMap(sub)
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}

// scalar converts a decoded YAML value to the form kong parses: numbers
// become strings and sequences become lists of strings.
func scalar(v any) any {
	switch v := v.(type) {
	case int, int64, uint64:
		return fmt.Sprint(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = fmt.Sprint(scalar(e))
		}

		return out
	}

	return v
}

func stringMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(scalar(v))
	}

	return out
}
