// Package cli wires the command-line interface: flag parsing with kong,
// logger construction, optional profiling, and flag defaults loaded from a
// configuration file written in the module's own DSL.
package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/pressmark/parsecfg/cli/cmd"
	"github.com/pressmark/parsecfg/cli/cmd/repl"
	"github.com/pressmark/parsecfg/pkg"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Render  cmd.Render  `cmd:"" default:"withargs" help:"Parse a configuration source and render the tree"`
	Check   cmd.Check   `cmd:""                    help:"Validate a configuration source"`
	Symbols cmd.Symbols `cmd:""                    help:"List known symbols of the target API"`
	Repl    repl.Repl   `cmd:""                    help:"Interactive configuration shell"`
}

// Run executes the CLI with the given context and arguments. The exit
// function receives the exit code for early terminations such as --help.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Configuration(resolve, defaultsPath()),
		kong.Vars{"version": pkg.Version()}.CloneWith(cli.Pprof.vars()),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := cli.Log.logger()

	ctx = cmd.WithLogger(ctx, logger)

	// No-op unless built with the pprof tag and a mode was selected.
	defer cli.Pprof.start(logger)()

	return ktx.Run(ctx, &cli)
}
