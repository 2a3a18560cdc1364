//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jeongminsang/stylex/log"
	"github.com/jeongminsang/stylex/pkg"
	"github.com/jeongminsang/stylex/profile"
)

type pprofConfig struct {
	Mode  string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir   string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
	Quiet bool   `default:"true"                                 help:"Suppress profiler status messages"                        negatable:""`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
		slog.Bool("quiet", f.Quiet),
	)

	profiler := profile.Config{Mode: f.Mode, Dir: f.Dir, Quiet: f.Quiet}.Start()

	return func() {
		log.DebugContext(ctx, "pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}
}
