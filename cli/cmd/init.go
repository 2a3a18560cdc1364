package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/jeongminsang/stylex/log"
	"github.com/jeongminsang/stylex/pkg"
	"github.com/jeongminsang/stylex/profile"
)

// Init writes a configuration file holding the current value of every
// configurable flag.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return pkg.ErrWriteConfig.Wrapf("%s", confPath).Wrap(pkg.ErrFileExists)
	}

	b, err := yaml.MarshalWithOptions(configValues(ktx), yaml.Indent(2))
	if err != nil {
		return pkg.ErrWriteConfig.Wrap(pkg.ErrYAMLMarshal.Wrap(err))
	}

	if err := os.WriteFile(confPath, b, 0o600); err != nil {
		return pkg.ErrWriteConfig.Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configValues collects the current value of every visible flag of the
// application, in declaration order, skipping flags that only make sense on
// the command line.
func configValues(ktx *kong.Context) yaml.MapSlice {
	var (
		out  yaml.MapSlice
		seen = make(map[string]struct{})
	)

	skip := []string{"help", "version", "force", "format", profile.Tag}

	var walk func(n *kong.Node)
	walk = func(n *kong.Node) {
		for _, flag := range n.Flags {
			if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
				return strings.HasPrefix(flag.Name, s)
			}) {
				continue
			}

			if _, dup := seen[flag.Name]; dup {
				continue
			}

			seen[flag.Name] = struct{}{}

			if v, ok := configValue(ktx.FlagValue(flag)); ok {
				out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
			}
		}

		for _, child := range n.Children {
			walk(child)
		}
	}

	walk(ktx.Model.Node)

	return out
}

// configValue reports the value to store for a flag and whether it is set.
func configValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case map[string]string:
		return v, len(v) > 0
	}

	return v, true
}
