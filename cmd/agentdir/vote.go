package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/vote"
)

var voteCmd = &cobra.Command{
	Use:   "vote <collection> <slug> up|down",
	Short: "Toggle an upvote or downvote on an entry",
	Long: `Apply one upvote or downvote toggle to an entry and record the resulting
choice in the local store.

Voting the same way twice clears the vote; voting the other way switches it.
Without --restore every invocation starts from no vote.

Example:
  agentdir vote agents code-reviewer up
  agentdir vote skills test-writer down --restore`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := content.ParseCollection(args[0])
		if err != nil {
			return err
		}
		direction, err := vote.ParseChoice(args[2])
		if err != nil || direction == vote.ChoiceNone {
			return errors.Errorf("invalid direction %q, want up or down", args[2])
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := localstore.Open(cmd.Context(), appConfig.Store)
		if err != nil {
			return errors.Wrap(err, "failed to open local store")
		}
		defer store.Close()

		return runVote(cmd.Context(), appConfig, store, c, args[1], direction, asJSON, cmd.OutOrStdout())
	},
}

func init() {
	voteCmd.Flags().Bool("json", false, "Output the transition as JSON")
}

// voteResult is the JSON form of a vote transition.
type voteResult struct {
	Collection content.Collection `json:"collection"`
	Slug       string             `json:"slug"`
	From       string             `json:"from"`
	To         string             `json:"to"`
	Delta      int                `json:"delta"`
	Score      int                `json:"score"`
}

func runVote(ctx context.Context, app *AppConfig, store vote.Store, c content.Collection, slug string, direction vote.Choice, asJSON bool, w io.Writer) error {
	if !c.Votable() {
		return errors.Errorf("%s entries cannot be voted on", c)
	}

	dir, err := loadDirectory(ctx, app)
	if err != nil {
		return err
	}
	e, err := dir.Find(c, slug)
	if err != nil {
		return err
	}

	opts := append(sessionOptions(app), vote.WithTracing(ctx))
	s := vote.NewSession(ctx, e.ItemID(), e.InitialScore(), store, opts...)
	var t vote.Transition
	if direction == vote.ChoiceUp {
		t = s.Upvote(ctx)
	} else {
		t = s.Downvote(ctx)
	}

	logger.G(ctx).WithField("item", t.ItemID).WithField("delta", t.Delta).Info("vote toggled")

	if asJSON {
		return writeJSON(w, voteResult{
			Collection: c,
			Slug:       e.Slug,
			From:       t.From.String(),
			To:         t.To.String(),
			Delta:      t.Delta,
			Score:      t.Score,
		})
	}

	fmt.Fprintf(w, "%s/%s: %s -> %s, score %s (%+d)\n", c, e.Slug, choiceLabel(t.From), choiceLabel(t.To), s.FormatScore(), t.Delta)
	return nil
}

func choiceLabel(c vote.Choice) string {
	if c == vote.ChoiceNone {
		return "none"
	}
	return c.String()
}
