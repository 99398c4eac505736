package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/app"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/config"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/logging"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/usecase"
)

// rootOptions is shared by all subcommands; app is built before each run.
type rootOptions struct {
	configPath string
	logLevel   string
	app        *app.Application
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sudpraktika",
		Short: "Criminal code site generator and court decision collector",
		Long: `sudpraktika turns the Criminal Code of Ukraine into a Jekyll article collection
and files Supreme Court channel posts as decision records linked to the articles they cite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(opts.configPath)
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.app = app.New(cfg, logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is $SUDPRAKTIKA_CONFIG, built-in defaults otherwise)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging level (debug, info, warn, error)")

	cmd.AddCommand(
		newParseCodeCommand(opts),
		newIngestCommand(opts),
		newWatchCommand(opts),
		newClassifyCommand(opts),
	)
	return cmd
}

func hint(err error) string {
	switch {
	case errors.Is(err, usecase.ErrNoArticles):
		return "the PDF has no recognisable article headings; check that it has a text layer"
	case errors.Is(err, usecase.ErrNoPosts):
		return "the channel returned no posts; check the channel name and network access"
	default:
		return ""
	}
}
