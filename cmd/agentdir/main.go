package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/presenter"
)

var (
	appConfig       *AppConfig
	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "agentdir",
	Short: "Browse, vote on and maintain the AI agent directory",
	Long: `agentdir works with a directory of AI agents, skills and blog posts kept as
markdown files with YAML frontmatter. It lists and browses the entries, records
your up and down votes locally, and validates and scaffolds content.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		appConfig = cfg

		shutdown, err := initTracing(cmd.Context(), cfg)
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialise tracing")
			return nil
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if shutdownTracing == nil {
			return nil
		}
		if err := shutdownTracing(context.Background()); err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to flush traces")
		}
		return nil
	},
}

func init() {
	initConfig(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringP("content-dir", "C", "content", "Content root holding agents/, skills/ and blog/")
	flags.String("store", "sqlite", "Local store backend (sqlite, file, memory)")
	flags.String("store-path", "", "Local store location (defaults under ~/.agentdir)")
	flags.Bool("restore", false, "Restore previously persisted vote choices")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "fmt", "Log format (fmt, json)")

	viper.BindPFlag("content_dir", flags.Lookup("content-dir"))
	viper.BindPFlag("store.backend", flags.Lookup("store"))
	viper.BindPFlag("store.path", flags.Lookup("store-path"))
	viper.BindPFlag("votes.restore", flags.Lookup("restore"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))

	rootCmd.AddCommand(withTracing(listCmd))
	rootCmd.AddCommand(withTracing(showCmd))
	rootCmd.AddCommand(withTracing(browseCmd))
	rootCmd.AddCommand(withTracing(voteCmd))
	rootCmd.AddCommand(votesCmd)
	rootCmd.AddCommand(withTracing(validateCmd))
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	logger.SetOutput(os.Stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
