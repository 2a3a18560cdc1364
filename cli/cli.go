package cli

import (
	"context"
	"io"

	"github.com/alecthomas/kong"

	"github.com/jeongminsang/stylex/cli/cmd"
	"github.com/jeongminsang/stylex/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// CLI is the top-level command-line interface for stylec.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Compile cmd.Compile `cmd:"" default:"withargs" help:"Compile style modules"`
	Eval    cmd.Eval    `cmd:""                    help:"Print evaluated style definitions"`
	AST     cmd.AST     `cmd:"" name:"ast"         help:"Print the parsed tree of a module"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// Option customizes how [Run] builds the command-line parser.
type Option func(*settings)

type settings struct {
	config string
	stdout io.Writer
	stderr io.Writer
}

// WithConfigFile reads flag defaults from path instead of the user
// configuration file.
func WithConfigFile(path string) Option {
	return func(s *settings) { s.config = path }
}

// WithOutput redirects command output and usage text.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(s *settings) { s.stdout, s.stderr = stdout, stderr }
}

// Run executes the stylec CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// terminates early, such as after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args []string,
	opts ...Option,
) error {
	var cli CLI

	s := settings{config: pkg.ConfigPath(baseConfig)}
	for _, opt := range opts {
		opt(&s)
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: s.config,
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that parse errors are
	// already logged in the requested format.
	cli.Log.scan(args)

	kopts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), s.config),
		vars,
	}

	if s.stdout != nil {
		kopts = append(kopts, kong.Writers(s.stdout, s.stderr))
	}

	parser, err := kong.New(&cli, kopts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
