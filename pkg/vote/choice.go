package vote

import (
	"github.com/pkg/errors"
)

// Choice is the viewer's current vote on a single item.
type Choice int

const (
	// ChoiceNone means the viewer has not voted, or has withdrawn a vote.
	ChoiceNone Choice = iota
	// ChoiceUp is an upvote.
	ChoiceUp
	// ChoiceDown is a downvote.
	ChoiceDown
)

// String returns the value written to the local store for the choice.
// ChoiceNone is stored as the empty string.
func (c Choice) String() string {
	switch c {
	case ChoiceUp:
		return "up"
	case ChoiceDown:
		return "down"
	default:
		return ""
	}
}

// Weight is the contribution of the choice to an item's score relative to
// ChoiceNone.
func (c Choice) Weight() int {
	switch c {
	case ChoiceUp:
		return 1
	case ChoiceDown:
		return -1
	default:
		return 0
	}
}

// ParseChoice converts a stored value back into a Choice.
func ParseChoice(s string) (Choice, error) {
	switch s {
	case "":
		return ChoiceNone, nil
	case "up":
		return ChoiceUp, nil
	case "down":
		return ChoiceDown, nil
	default:
		return ChoiceNone, errors.Errorf("invalid vote choice: %q", s)
	}
}
