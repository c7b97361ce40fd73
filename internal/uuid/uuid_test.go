package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/battlefield-terrain/internal/uuid"
)

func TestGoogleUUIDGenerator(t *testing.T) {
	g := uuid.NewGoogleUUIDGenerator()
	a, b := g.New(), g.New()
	assert.NotEqual(t, a, b)
	assert.True(t, uuid.IsValid(a))
}

func TestSequenceGenerator(t *testing.T) {
	g := uuid.NewSequenceGenerator("field")
	assert.Equal(t, "field-1", g.New())
	assert.Equal(t, "field-2", g.New())
	assert.False(t, uuid.IsValid("field-1"))
}
