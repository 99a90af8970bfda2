package browse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInput_ErrorMessages(t *testing.T) {
	iv := newInputValidator()

	_, err := iv.decodeInput(MsgSortSet, json.RawMessage(`{"value":"title.asc"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value must be one of")

	_, err = iv.decodeInput(MsgDescriptionToggle, json.RawMessage(`{"movieId":0}`))
	require.Error(t, err)
	assert.Equal(t, "movieId must be greater than 0", err.Error())

	_, err = iv.decodeInput("bogus", nil)
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestDecodeInput_QueryKeepsWhitespace(t *testing.T) {
	iv := newInputValidator()

	mutate, err := iv.decodeInput(MsgQuerySet, json.RawMessage(`{"value":"  the "}`))
	require.NoError(t, err)

	state := DefaultQueryState()
	mutate(&state)
	assert.Equal(t, "  the ", state.SearchQuery)
}
