package render

import (
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/vote"
)

// Detail draws the full page of an entry: the card, the exact vote total and
// the markdown body rendered for the terminal.
func Detail(e *content.Entry, s *vote.Session, width int) string {
	if width <= 0 {
		width = defaultCardWidth
	}

	var b strings.Builder
	b.WriteString(Card(e, s, CardOptions{Width: width}))
	b.WriteString("\n")

	if s != nil {
		score := lipgloss.NewStyle().Foreground(ScoreColor(s.Score())).Bold(true).Render(humanize.Comma(int64(s.Score())))
		b.WriteString(mutedStyle.Render("votes: ") + score)
		if c := s.Choice(); c != vote.ChoiceNone {
			b.WriteString(mutedStyle.Render(" (you voted " + c.String() + ")"))
		}
		b.WriteString("\n")
	}
	if d := e.Downloads(); d > 0 {
		b.WriteString(mutedStyle.Render("downloads: ") + humanize.Comma(int64(d)) + "\n")
	}
	if cmd := e.InstallCommand(); cmd != "" {
		b.WriteString(mutedStyle.Render("install: ") + installStyle.Render(cmd) + "\n")
	}
	if e.Skill != nil && len(e.Skill.CompatibleAgents) > 0 {
		b.WriteString(mutedStyle.Render("works with: ") + strings.Join(e.Skill.CompatibleAgents, ", ") + "\n")
	}
	if e.Post != nil {
		related := append(append([]string{}, e.Post.RelatedAgents...), e.Post.RelatedSkills...)
		if len(related) > 0 {
			b.WriteString(mutedStyle.Render("related: ") + strings.Join(related, ", ") + "\n")
		}
	}

	if body := strings.TrimSpace(e.Body); body != "" {
		b.WriteString("\n")
		b.Write(markdown.Render(body, width-4, 2))
	}
	return b.String()
}
