package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/vote"
)

// Browse runs the interactive directory browser until the user quits.
func Browse(ctx context.Context, dir *content.Directory, store vote.Store, opts Options) error {
	model := NewModel(ctx, dir, store, opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "error running browser")
	}
	return nil
}
