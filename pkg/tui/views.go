package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 2
)

var (
	activeTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Underline(true).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Background(lipgloss.Color("236")).Padding(0, 1).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.tabsView(),
		m.viewport.View(),
		m.statusView(),
		m.help.View(m.keys),
	)
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, len(m.tabs))
	for i, c := range m.tabs {
		label := string(c)
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) statusView() string {
	parts := []string{m.statusMessage}
	if len(m.entries) > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.cursor+1, len(m.entries)))
	}
	return statusStyle.Render(strings.Join(parts, " │ "))
}
