package main

import (
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/content"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <collection>",
	Short: "Print the JSON Schema of a collection's frontmatter",
	Long: `Print the JSON Schema of a collection's frontmatter, for editor completion
and validation.

Example:
  agentdir schema agents > .vscode/agents.schema.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := content.ParseCollection(args[0])
		if err != nil {
			return err
		}
		schema, err := content.Schema(c)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), schema)
	},
}
