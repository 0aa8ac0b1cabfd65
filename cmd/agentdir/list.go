package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/render"
	"github.com/summon-ai/agentdir/pkg/vote"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Collection content.Collection
	Filter     content.Filter
	JSON       bool
	Tags       bool
	Width      int
}

// NewListConfig creates a new ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{
		Collection: content.Agents,
		Width:      100,
	}
}

var listCmd = &cobra.Command{
	Use:   "list [agents|skills|blog]",
	Short: "List directory entries",
	Long: `List the entries of a collection, ranked by vote total.

Example:
  agentdir list
  agentdir list skills --tag go
  agentdir list agents --featured --match 'code-*' --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := getListConfigFromFlags(cmd, args)
		if err != nil {
			return err
		}
		return runList(cmd.Context(), appConfig, config, cmd.OutOrStdout())
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().String("tag", "", "Only entries with this tag")
	listCmd.Flags().String("category", "", "Only entries in this category")
	listCmd.Flags().Bool("featured", false, "Only featured entries")
	listCmd.Flags().String("match", "", "Only entries whose slug matches this glob")
	listCmd.Flags().Bool("json", false, "Output JSON")
	listCmd.Flags().Bool("tags", false, "Print the tag index instead of entries")
	listCmd.Flags().Int("width", defaults.Width, "Card width")
}

func getListConfigFromFlags(cmd *cobra.Command, args []string) (*ListConfig, error) {
	config := NewListConfig()

	if len(args) > 0 {
		c, err := content.ParseCollection(args[0])
		if err != nil {
			return nil, err
		}
		config.Collection = c
	}
	if tag, err := cmd.Flags().GetString("tag"); err == nil {
		config.Filter.Tag = tag
	}
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Filter.Category = category
	}
	if featured, err := cmd.Flags().GetBool("featured"); err == nil {
		config.Filter.Featured = featured
	}
	if match, err := cmd.Flags().GetString("match"); err == nil {
		config.Filter.Match = match
	}
	if asJSON, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = asJSON
	}
	if tags, err := cmd.Flags().GetBool("tags"); err == nil {
		config.Tags = tags
	}
	if width, err := cmd.Flags().GetInt("width"); err == nil {
		config.Width = width
	}

	return config, nil
}

// listItem is the JSON form of a listed entry.
type listItem struct {
	Rank   int            `json:"rank"`
	Score  int            `json:"score"`
	Choice string         `json:"choice,omitempty"`
	Entry  *content.Entry `json:"entry"`
}

func runList(ctx context.Context, app *AppConfig, config *ListConfig, w io.Writer) error {
	dir, err := loadDirectory(ctx, app)
	if err != nil {
		return err
	}

	if config.Tags {
		return printTags(w, dir.Tags(config.Collection), config.JSON)
	}

	entries, err := config.Filter.Apply(dir.Entries(config.Collection))
	if err != nil {
		return err
	}

	store, closeStore, err := openRestoreStore(ctx, app)
	if err != nil {
		return err
	}
	defer closeStore()

	items := make([]listItem, 0, len(entries))
	sessions := make([]*vote.Session, 0, len(entries))
	for i, e := range entries {
		var s *vote.Session
		if e.Votable() {
			s = vote.NewSession(ctx, e.ItemID(), e.InitialScore(), store, sessionOptions(app)...)
		}
		item := listItem{Rank: i + 1, Score: e.InitialScore(), Entry: e}
		if s != nil {
			item.Score = s.Score()
			item.Choice = s.Choice().String()
		}
		items = append(items, item)
		sessions = append(sessions, s)
	}

	if config.JSON {
		return writeJSON(w, items)
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "No %s found.\n", config.Collection)
		return nil
	}
	for i, e := range entries {
		fmt.Fprintln(w, render.Card(e, sessions[i], render.CardOptions{Rank: i + 1, Width: config.Width}))
	}
	return nil
}

func printTags(w io.Writer, tags []content.TagCount, asJSON bool) error {
	if asJSON {
		return writeJSON(w, tags)
	}
	for _, t := range tags {
		fmt.Fprintf(w, "#%-24s %d\n", t.Tag, t.Count)
	}
	return nil
}

// openRestoreStore opens the local store only when sessions read from it.
// Listing never writes, so without restore no store is needed.
func openRestoreStore(ctx context.Context, app *AppConfig) (vote.Store, func(), error) {
	if !app.Votes.Restore {
		return nil, func() {}, nil
	}
	store, err := localstore.Open(ctx, app.Store)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open local store")
	}
	return store, func() { store.Close() }, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}
