// Package cli implements the pedigree-sim command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/brca-pedigree-sim/internal/config"
	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/logging"
)

// ErrUnknownCommand is returned for an unrecognised subcommand.
var ErrUnknownCommand = errors.New("unknown command")

// CLI dispatches subcommands. Results go to Out, flag errors and usage to Err;
// logs go wherever the logging configuration points.
type CLI struct {
	Out     io.Writer
	Err     io.Writer
	Version string
}

// New creates a CLI writing to out and errOut.
func New(out, errOut io.Writer, version string) *CLI {
	return &CLI{Out: out, Err: errOut, Version: version}
}

// Run executes the subcommand named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	switch args[0] {
	case "run":
		return c.simulate(ctx, args[1:], false)
	case "carriers":
		return c.simulate(ctx, args[1:], true)
	case "summarize":
		return c.summarize(ctx, args[1:])
	case "runs":
		return c.runs(ctx, args[1:])
	case "version":
		fmt.Fprintf(c.Out, "pedigree-sim %s\n", c.Version)
		return nil
	case "help", "--help", "-h":
		return c.showHelp()
	default:
		_ = c.showHelp()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (c *CLI) showHelp() error {
	help := `pedigree-sim generates synthetic three-generation BRCA pedigrees.

Usage:
  pedigree-sim <command> [options]

Commands:
  run         Simulate pedigrees and write BOADICEA files
  carriers    Simulate until enough families have a mutation carrier founder
  summarize   Compute family history summaries for an existing pedigree file
  runs        Manage stored runs: list, show, delete, export, import
  version     Print the version

Examples:
  pedigree-sim run --trials 1000 --seed 42 --output-dir out
  pedigree-sim carriers --trials 50 --workers 4 --xlsx
  pedigree-sim summarize out/pedigree.txt
  pedigree-sim runs list --store sqlite

Every option can also be set in config.yaml or with PEDSIM_* environment
variables, e.g. PEDSIM_SIMULATION_TRIALS=500.
`
	fmt.Fprint(c.Out, help)
	return nil
}

// flagSet returns a flag set carrying the shared configuration flags.
func (c *CLI) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.Err)
	config.RegisterFlags(fs)
	return fs
}

// environment is the loaded configuration and logger of one command.
type environment struct {
	cfg    *domain.Config
	logger *logrus.Logger
	closer io.Closer
}

func (e *environment) Close() error {
	return e.closer.Close()
}

func loadEnvironment(fs *pflag.FlagSet) (*environment, error) {
	manager, err := config.NewManager(fs)
	if err != nil {
		return nil, err
	}
	if err := manager.Validate(); err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	if used := manager.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("Configuration file loaded")
	}
	return &environment{cfg: cfg, logger: logger, closer: closer}, nil
}
