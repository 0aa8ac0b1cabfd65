// Package render draws directory entries for the terminal: the card used in
// listings and the browser, the vote widget beside it and the detail view.
package render

import "github.com/charmbracelet/lipgloss"

const (
	colorUp      = lipgloss.Color("#f97316")
	colorDown    = lipgloss.Color("#3b82f6")
	colorNeutral = lipgloss.Color("#9ca3af")
	colorPrimary = lipgloss.Color("#a78bfa")
	colorMuted   = lipgloss.Color("240")
	colorBorder  = lipgloss.Color("238")
	colorRating  = lipgloss.Color("#eab308")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("205"))
	featuredCardStyle = cardStyle.BorderForeground(colorPrimary)

	badgeStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	rankStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	ratingStyle   = lipgloss.NewStyle().Foreground(colorRating)
	installStyle  = lipgloss.NewStyle().Foreground(colorPrimary)
	arrowStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

// ScoreColor is the colour of a vote total: orange when positive, blue when
// negative, grey at zero.
func ScoreColor(score int) lipgloss.Color {
	switch {
	case score > 0:
		return colorUp
	case score < 0:
		return colorDown
	default:
		return colorNeutral
	}
}
