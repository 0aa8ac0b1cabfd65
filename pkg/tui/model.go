package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/render"
	"github.com/summon-ai/agentdir/pkg/vote"
)

// Options configure the browser.
type Options struct {
	// Restore seeds each vote widget with the choice previously persisted
	// in the local store.
	Restore bool
}

// Model is the directory browser. It runs on bubbletea's event loop, so the
// vote sessions it owns are only ever touched from one goroutine.
type Model struct {
	ctx     context.Context
	dir     *content.Directory
	store   vote.Store
	options Options

	tabs    []content.Collection
	tab     int
	entries []*content.Entry
	// sessions holds one vote session per votable entry of the current
	// tab, keyed by item id. They are discarded when the tab changes.
	sessions map[string]*vote.Session
	cursor   int
	detail   bool

	viewport      viewport.Model
	help          help.Model
	keys          keyMap
	ready         bool
	width         int
	height        int
	statusMessage string
}

// NewModel creates a browser over dir. Votes are written to store.
func NewModel(ctx context.Context, dir *content.Directory, store vote.Store, opts Options) Model {
	m := Model{
		ctx:           ctx,
		dir:           dir,
		store:         store,
		options:       opts,
		tabs:          content.Collections(),
		viewport:      viewport.New(0, 0),
		help:          help.New(),
		keys:          defaultKeyMap(),
		statusMessage: "Ready",
	}
	m.loadTab()
	return m
}

// loadTab replaces the entries and sessions with those of the current tab.
func (m *Model) loadTab() {
	c := m.tabs[m.tab]
	m.entries = m.dir.Entries(c)
	m.sessions = make(map[string]*vote.Session)
	m.cursor = 0
	m.detail = false

	opts := []vote.Option{vote.WithTracing(m.ctx)}
	if m.options.Restore {
		opts = append(opts, vote.WithRestore())
	}
	for _, e := range m.entries {
		if !e.Votable() {
			continue
		}
		m.sessions[e.ItemID()] = vote.NewSession(m.ctx, e.ItemID(), e.InitialScore(), m.store, opts...)
	}

	logger.G(m.ctx).WithField("collection", c).WithField("entries", len(m.entries)).Debug("switched collection")
}

// discardSessions drops every live session, as leaving the page does.
func (m *Model) discardSessions() {
	m.sessions = nil
}

func (m Model) current() *content.Entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return m.entries[m.cursor]
}

func (m Model) session(e *content.Entry) *vote.Session {
	if e == nil || m.sessions == nil {
		return nil
	}
	return m.sessions[e.ItemID()]
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.discardSessions()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.loadTab()
			m.statusMessage = "Browsing " + string(m.tabs[m.tab])
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.loadTab()
			m.statusMessage = "Browsing " + string(m.tabs[m.tab])
		case key.Matches(msg, m.keys.Up):
			if m.detail {
				m.viewport.LineUp(1)
				return m, nil
			}
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.detail {
				m.viewport.LineDown(1)
				return m, nil
			}
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Upvote):
			m.vote(true)
		case key.Matches(msg, m.keys.Downvote):
			m.vote(false)
		case key.Matches(msg, m.keys.Open):
			if m.current() != nil {
				m.detail = true
				m.viewport.GotoTop()
			}
		case key.Matches(msg, m.keys.Back):
			m.detail = false
		default:
			return m, nil
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) vote(up bool) {
	e := m.current()
	s := m.session(e)
	if s == nil {
		m.statusMessage = "This entry cannot be voted on"
		return
	}

	var t vote.Transition
	if up {
		t = s.Upvote(m.ctx)
	} else {
		t = s.Downvote(m.ctx)
	}
	m.statusMessage = transitionText(e, t)
}

func transitionText(e *content.Entry, t vote.Transition) string {
	switch t.To {
	case vote.ChoiceUp:
		return fmt.Sprintf("Upvoted %s (%s)", e.Title(), vote.FormatScore(t.Score))
	case vote.ChoiceDown:
		return fmt.Sprintf("Downvoted %s (%s)", e.Title(), vote.FormatScore(t.Score))
	default:
		return fmt.Sprintf("Cleared vote on %s (%s)", e.Title(), vote.FormatScore(t.Score))
	}
}

// refresh re-renders the viewport content and keeps the selected card in
// view.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	if m.detail {
		e := m.current()
		m.viewport.SetContent(render.Detail(e, m.session(e), m.width))
		return
	}

	if len(m.entries) == 0 {
		m.viewport.SetContent(mutedStyle.Render(fmt.Sprintf("No %s yet.", m.tabs[m.tab])))
		m.viewport.GotoTop()
		return
	}

	var (
		cards       []string
		top, bottom int
		line        int
	)
	for i, e := range m.entries {
		card := render.Card(e, m.session(e), render.CardOptions{
			Rank:     i + 1,
			Width:    m.width,
			Selected: i == m.cursor,
		})
		height := lipgloss.Height(card)
		if i == m.cursor {
			top, bottom = line, line+height
		}
		line += height
		cards = append(cards, card)
	}
	m.viewport.SetContent(strings.Join(cards, "\n"))

	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}
