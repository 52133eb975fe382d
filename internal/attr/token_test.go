package attr

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedGenerator_ReturnsTokensInOrder(t *testing.T) {
	g := NewFixedGenerator("a", "b", "c")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Equal(t, "c", g.Generate())
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	g.Generate()
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator_ProducesDistinctOrderedTokens(t *testing.T) {
	g := UUIDv7Generator{}

	a := g.Generate()
	b := g.Generate()
	assert.NotEqual(t, a, b)

	ua, err := uuid.Parse(a)
	require.NoError(t, err)
	ub, err := uuid.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), ua.Version())
	assert.Equal(t, uuid.Version(7), ub.Version())
}
