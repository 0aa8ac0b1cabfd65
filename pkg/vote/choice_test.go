package vote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoiceRoundTrip(t *testing.T) {
	for _, c := range []Choice{ChoiceNone, ChoiceUp, ChoiceDown} {
		parsed, err := ParseChoice(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseChoiceInvalid(t *testing.T) {
	_, err := ParseChoice("UP")
	assert.Error(t, err)
}

func TestChoiceWeight(t *testing.T) {
	assert.Equal(t, 0, ChoiceNone.Weight())
	assert.Equal(t, 1, ChoiceUp.Weight())
	assert.Equal(t, -1, ChoiceDown.Weight())
}
