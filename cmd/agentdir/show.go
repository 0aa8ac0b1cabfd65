package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/render"
	"github.com/summon-ai/agentdir/pkg/vote"
)

var showCmd = &cobra.Command{
	Use:   "show <collection> <slug>",
	Short: "Show one entry in full",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := content.ParseCollection(args[0])
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")
		return runShow(cmd.Context(), appConfig, c, args[1], width, cmd.OutOrStdout())
	},
}

func init() {
	showCmd.Flags().Int("width", 100, "Output width")
}

func runShow(ctx context.Context, app *AppConfig, c content.Collection, slug string, width int, w io.Writer) error {
	dir, err := loadDirectory(ctx, app)
	if err != nil {
		return err
	}
	e, err := dir.Find(c, slug)
	if err != nil {
		return err
	}

	store, closeStore, err := openRestoreStore(ctx, app)
	if err != nil {
		return err
	}
	defer closeStore()

	var s *vote.Session
	if e.Votable() {
		s = vote.NewSession(ctx, e.ItemID(), e.InitialScore(), store, sessionOptions(app)...)
	}
	fmt.Fprint(w, render.Detail(e, s, width))
	return nil
}
