package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/presenter"
)

var newCmd = &cobra.Command{
	Use:   "new <collection> <slug>",
	Short: "Scaffold a new entry",
	Long: `Create <content-dir>/<collection>/<slug>.md with frontmatter that passes
validation. Existing files are never overwritten.

Example:
  agentdir new agents code-reviewer --author octo
  agentdir new blog 2026/launch --title "We launched"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := content.ParseCollection(args[0])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")

		path, err := content.Scaffold(appConfig.ContentDir, c, args[1], content.ScaffoldOptions{
			Title:  title,
			Author: author,
		})
		if err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("Created %s", path))
		return nil
	},
}

func init() {
	newCmd.Flags().String("title", "", "Entry title (defaults to one derived from the slug)")
	newCmd.Flags().String("author", "", "Entry author")
}
