package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/vote"
)

const (
	maxCardTags       = 4
	maxInstallRunes   = 50
	descriptionLines  = 2
	defaultCardWidth  = 80
	voteWidgetColumns = 7
)

// CardOptions control how a card is drawn.
type CardOptions struct {
	// Rank is the 1-based position in the listing. Zero hides it.
	Rank     int
	Width    int
	Selected bool
}

// VoteWidget draws the upvote arrow, the formatted score and the downvote
// arrow stacked vertically. The arrow of the active choice is highlighted.
func VoteWidget(s *vote.Session) string {
	up := arrowStyle.Render("▲")
	down := arrowStyle.Render("▼")
	switch s.Choice() {
	case vote.ChoiceUp:
		up = lipgloss.NewStyle().Foreground(colorUp).Bold(true).Render("▲")
	case vote.ChoiceDown:
		down = lipgloss.NewStyle().Foreground(colorDown).Bold(true).Render("▼")
	}
	score := lipgloss.NewStyle().Foreground(ScoreColor(s.Score())).Bold(true).Render(s.FormatScore())

	return lipgloss.NewStyle().Width(voteWidgetColumns).Align(lipgloss.Center).Render(
		lipgloss.JoinVertical(lipgloss.Center, up, score, down),
	)
}

// Card draws one entry. The vote widget is shown when s is non-nil.
func Card(e *content.Entry, s *vote.Session, opts CardOptions) string {
	width := opts.Width
	if width <= 0 {
		width = defaultCardWidth
	}
	bodyWidth := width - 4
	if s != nil {
		bodyWidth -= voteWidgetColumns + 1
	}
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	var header []string
	if e.Featured() {
		header = append(header, badgeStyle.Render("Featured"))
	}
	if opts.Rank > 0 {
		header = append(header, rankStyle.Render(fmt.Sprintf("#%d", opts.Rank)))
	}
	header = append(header, titleStyle.Render(Truncate(e.Title(), bodyWidth)))

	lines := []string{strings.Join(header, " ")}
	if desc := ClampLines(e.Description(), bodyWidth, descriptionLines); desc != "" {
		lines = append(lines, mutedStyle.Render(desc))
	}
	lines = append(lines, metaLine(e))
	if tags := TagLine(e.Tags()); tags != "" {
		lines = append(lines, mutedStyle.Render(tags))
	}
	if cmd := e.InstallCommand(); cmd != "" {
		lines = append(lines, mutedStyle.Render("$ ")+installStyle.Render(Truncate(cmd, maxInstallRunes)))
	}

	body := lipgloss.NewStyle().Width(bodyWidth).Render(strings.Join(lines, "\n"))
	if s != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, VoteWidget(s), " ", body)
	}

	style := cardStyle
	switch {
	case opts.Selected:
		style = selectedCardStyle
	case e.Featured():
		style = featuredCardStyle
	}
	return style.Render(body)
}

func metaLine(e *content.Entry) string {
	parts := []string{
		mutedStyle.Render("by ") + e.Author(),
		categoryStyle.Render(e.Category()),
	}
	if e.Votable() {
		parts = append(parts, mutedStyle.Render("↓ "+vote.FormatCount(e.Downloads())))
		if r := RatingText(e.Rating()); r != "" {
			parts = append(parts, ratingStyle.Render("★ "+r))
		}
	}
	if repo := e.Repo(); repo != "" {
		parts = append(parts, mutedStyle.Render(repo))
	}
	if e.Post != nil {
		parts = append(parts, mutedStyle.Render(e.Post.Published.Format("Jan 2, 2006")))
	}
	return strings.Join(parts, "  ")
}

// RatingText formats a rating with one decimal, or returns "" when unrated.
func RatingText(rating float64) string {
	if rating <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f", rating)
}

// TagLine renders the first four tags as "#tag".
func TagLine(tags []string) string {
	if len(tags) > maxCardTags {
		tags = tags[:maxCardTags]
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, "#"+t)
	}
	return strings.Join(out, " ")
}

// Truncate cuts s to n runes and appends "..." when it was longer.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// ClampLines wraps text to width and keeps at most n lines, marking the cut
// with an ellipsis.
func ClampLines(text string, width, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	wrapped := strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
	for i := range wrapped {
		wrapped[i] = strings.TrimRight(wrapped[i], " ")
	}
	if len(wrapped) <= n {
		return strings.Join(wrapped, "\n")
	}

	wrapped = wrapped[:n]
	last := []rune(wrapped[n-1])
	if len(last) >= width {
		last = last[:width-1]
	}
	wrapped[n-1] = string(last) + "…"
	return strings.Join(wrapped, "\n")
}
