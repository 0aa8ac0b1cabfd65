// Package vote implements the per-item vote widget state: a viewer's up/down
// choice, the score it produces and the local record of that choice.
//
// A Session is owned by a single rendered view and is driven from that view's
// event loop. It is not safe for concurrent use. Sessions never share state;
// the Store they write to is the only resource shared between views, and it is
// last-writer-wins.
package vote

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/telemetry"
)

// KeyPrefix prefixes every local store key written by a Session.
const KeyPrefix = "vote-"

// Store is the viewer's device-scoped key-value store.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// StorageKey returns the local store key for an item.
func StorageKey(itemID string) string {
	return KeyPrefix + itemID
}

// Transition describes the effect of a single toggle.
type Transition struct {
	ItemID string
	From   Choice
	To     Choice
	Delta  int
	Score  int
}

type step struct {
	to    Choice
	delta int
}

var (
	upvoteSteps = map[Choice]step{
		ChoiceNone: {to: ChoiceUp, delta: 1},
		ChoiceUp:   {to: ChoiceNone, delta: -1},
		ChoiceDown: {to: ChoiceUp, delta: 2},
	}
	downvoteSteps = map[Choice]step{
		ChoiceNone: {to: ChoiceDown, delta: -1},
		ChoiceDown: {to: ChoiceNone, delta: 1},
		ChoiceUp:   {to: ChoiceDown, delta: -2},
	}
)

// Session holds one item's vote state for the current viewer.
type Session struct {
	itemID   string
	score    int
	choice   Choice
	store    Store
	observer func(Transition)
	restore  bool
}

// Option configures a Session.
type Option func(*Session)

// WithObserver registers a callback invoked after every toggle.
func WithObserver(fn func(Transition)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithTracing records every toggle as a vote.toggled event on the span
// carried by ctx.
func WithTracing(ctx context.Context) Option {
	return WithObserver(func(t Transition) {
		telemetry.AddEvent(ctx, "vote.toggled",
			attribute.String("vote.item", t.ItemID),
			attribute.String("vote.from", t.From.String()),
			attribute.String("vote.to", t.To.String()),
			attribute.Int("vote.delta", t.Delta),
			attribute.Int("vote.score", t.Score),
		)
	})
}

// WithRestore makes the session start from the choice previously written to
// the store, applying its weight to the initial score. Without it a session
// always starts at ChoiceNone, even when the store holds an earlier vote.
func WithRestore() Option {
	return func(s *Session) {
		s.restore = true
	}
}

// NewSession creates the vote state for itemID seeded with initialScore.
func NewSession(ctx context.Context, itemID string, initialScore int, store Store, opts ...Option) *Session {
	s := &Session{
		itemID: itemID,
		score:  initialScore,
		choice: ChoiceNone,
		store:  store,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.restore {
		s.restoreChoice(ctx)
	}

	return s
}

func (s *Session) restoreChoice(ctx context.Context) {
	if s.store == nil {
		return
	}

	log := logger.G(ctx).WithField("key", StorageKey(s.itemID))

	value, found, err := s.store.Get(ctx, StorageKey(s.itemID))
	if err != nil {
		log.WithError(err).Warn("failed to read stored vote choice")
		return
	}
	if !found {
		return
	}

	choice, err := ParseChoice(value)
	if err != nil {
		log.WithError(err).Warn("ignoring stored vote choice")
		return
	}

	s.choice = choice
	s.score += choice.Weight()
}

// ItemID returns the identifier of the item the session votes on.
func (s *Session) ItemID() string {
	return s.itemID
}

// Score returns the displayed score including the viewer's own vote.
func (s *Session) Score() int {
	return s.score
}

// Choice returns the viewer's current choice.
func (s *Session) Choice() Choice {
	return s.choice
}

// FormatScore returns the display string for the current score.
func (s *Session) FormatScore() string {
	return FormatScore(s.score)
}

// Upvote toggles the upvote: none becomes up, up becomes none and down
// switches straight to up.
func (s *Session) Upvote(ctx context.Context) Transition {
	return s.apply(ctx, upvoteSteps)
}

// Downvote toggles the downvote: none becomes down, down becomes none and up
// switches straight to down.
func (s *Session) Downvote(ctx context.Context) Transition {
	return s.apply(ctx, downvoteSteps)
}

func (s *Session) apply(ctx context.Context, steps map[Choice]step) Transition {
	st := steps[s.choice]

	t := Transition{
		ItemID: s.itemID,
		From:   s.choice,
		To:     st.to,
		Delta:  st.delta,
	}

	s.choice = st.to
	s.score += st.delta
	t.Score = s.score

	s.persist(ctx)

	if s.observer != nil {
		s.observer(t)
	}

	return t
}

// persist writes the current choice to the store. Failures are logged and
// otherwise ignored; the in-memory state stays authoritative for the view.
func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}

	key := StorageKey(s.itemID)
	if err := s.store.Set(ctx, key, s.choice.String()); err != nil {
		logger.G(ctx).WithError(err).WithField("key", key).Warn("failed to persist vote choice")
	}
}
