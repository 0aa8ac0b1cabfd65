package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/presenter"
	"github.com/summon-ai/agentdir/pkg/vote"
)

var votesCmd = &cobra.Command{
	Use:   "votes",
	Short: "Inspect and clear locally recorded votes",
}

var votesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded vote choices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all, _ := cmd.Flags().GetBool("all")
		asJSON, _ := cmd.Flags().GetBool("json")
		return withStore(cmd.Context(), func(store localstore.Store) error {
			return runVotesList(cmd.Context(), store, all, asJSON, cmd.OutOrStdout())
		})
	},
}

var votesClearCmd = &cobra.Command{
	Use:   "clear [slug]",
	Short: "Clear one recorded vote, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		var slug string
		if len(args) > 0 {
			slug = args[0]
		}
		if slug == "" && !yes && !presenter.Confirm("Clear every recorded vote?") {
			presenter.Info("Nothing cleared")
			return nil
		}
		return withStore(cmd.Context(), func(store localstore.Store) error {
			n, err := runVotesClear(cmd.Context(), store, slug)
			if err != nil {
				return err
			}
			presenter.Success(fmt.Sprintf("Cleared %d vote(s)", n))
			return nil
		})
	},
}

func init() {
	votesListCmd.Flags().Bool("all", false, "Include cleared votes")
	votesListCmd.Flags().Bool("json", false, "Output JSON")
	votesClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	votesCmd.AddCommand(votesListCmd)
	votesCmd.AddCommand(votesClearCmd)
}

func withStore(ctx context.Context, f func(localstore.Store) error) error {
	store, err := localstore.Open(ctx, appConfig.Store)
	if err != nil {
		return errors.Wrap(err, "failed to open local store")
	}
	defer store.Close()
	return f(store)
}

// recordedVote is one persisted vote choice.
type recordedVote struct {
	Slug   string `json:"slug"`
	Choice string `json:"choice"`
}

func runVotesList(ctx context.Context, store localstore.Store, all, asJSON bool, w io.Writer) error {
	entries, err := store.List(ctx, vote.KeyPrefix)
	if err != nil {
		return errors.Wrap(err, "failed to list votes")
	}

	votes := make([]recordedVote, 0, len(entries))
	for _, e := range entries {
		if e.Value == "" && !all {
			continue
		}
		votes = append(votes, recordedVote{
			Slug:   strings.TrimPrefix(e.Key, vote.KeyPrefix),
			Choice: e.Value,
		})
	}

	if asJSON {
		return writeJSON(w, votes)
	}
	if len(votes) == 0 {
		fmt.Fprintln(w, "No votes recorded.")
		return nil
	}
	for _, v := range votes {
		choice := v.Choice
		if choice == "" {
			choice = "-"
		}
		fmt.Fprintf(w, "%-40s %s\n", v.Slug, choice)
	}
	return nil
}

// runVotesClear deletes the vote for slug, or every vote when slug is empty,
// and returns how many keys were removed.
func runVotesClear(ctx context.Context, store localstore.Store, slug string) (int, error) {
	if slug != "" {
		key := vote.StorageKey(strings.ToLower(slug))
		if _, found, err := store.Get(ctx, key); err != nil {
			return 0, errors.Wrap(err, "failed to read vote")
		} else if !found {
			return 0, errors.Errorf("no vote recorded for %q", slug)
		}
		if err := store.Delete(ctx, key); err != nil {
			return 0, errors.Wrap(err, "failed to clear vote")
		}
		return 1, nil
	}

	entries, err := store.List(ctx, vote.KeyPrefix)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list votes")
	}
	for _, e := range entries {
		if err := store.Delete(ctx, e.Key); err != nil {
			return 0, errors.Wrapf(err, "failed to clear %s", e.Key)
		}
	}
	return len(entries), nil
}
