package ident

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	id := UUID{}.NewID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, id, UUID{}.NewID())
}

func TestSequence(t *testing.T) {
	seq := NewSequence("board")

	assert.Equal(t, "board-1", seq.NewID())
	assert.Equal(t, "board-2", seq.NewID())
}

func TestUnique(t *testing.T) {
	taken := map[string]struct{}{"t-1": {}, "t-2": {}}
	seq := NewSequence("t")

	id := Unique(seq, taken)

	assert.Equal(t, "t-3", id)
	assert.Contains(t, taken, "t-3")
}
