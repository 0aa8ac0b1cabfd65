package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the directory interactively",
	Long: `Open the interactive browser. Use tab to switch between agents, skills and
the blog, j/k to move, +/- to vote, enter for details and ? for help.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		dir, err := loadDirectory(ctx, appConfig)
		if err != nil {
			return err
		}

		store, err := localstore.Open(ctx, appConfig.Store)
		if err != nil {
			return errors.Wrap(err, "failed to open local store")
		}
		defer store.Close()

		return tui.Browse(ctx, dir, store, tui.Options{Restore: appConfig.Votes.Restore})
	},
}
