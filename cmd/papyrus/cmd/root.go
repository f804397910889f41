package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pacer/papyrus/internal/config"
	"github.com/pacer/papyrus/internal/papyrus/parser"
)

// version is set at build time.
var version = "dev"

// ErrSyntaxErrors is returned once every diagnostic has been printed.
var ErrSyntaxErrors = errors.New("syntax errors found")

// options is shared by every subcommand; 'cfg' and 'logger' are set before any of them runs.
type options struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *slog.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "papyrus",
		Short: "Papyrus script parser",
		Long: `papyrus parses Papyrus scripts into statement trees.

Commands:
  parse   - print the syntax tree of scripts
  tokens  - print the token stream of a script
  check   - report syntax errors in files and directories
  watch   - check a directory again whenever a script changes`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file, .toml or .yaml (default: $"+config.EnvConfigPath+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newParseCommand(opts),
		newTokensCommand(opts),
		newCheckCommand(opts),
		newWatchCommand(opts),
	)

	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	if o.verbose {
		level = slog.LevelDebug
	}

	o.cfg = cfg
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)

	return nil
}

func (o *options) parserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(o.cfg.Parser.MaxDepth)}
}

func (o *options) color() bool {
	return o.cfg.Output.Color && !o.noColor
}

func syntaxErrors(count int) error {
	if count == 0 {
		return nil
	}

	return fmt.Errorf("%w: %d", ErrSyntaxErrors, count)
}
