package terrain_test

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLeaf(t *testing.T, kind terrain.Kind, name string) *terrain.Feature {
	t.Helper()
	f, err := terrain.NewLeaf(kind, name, "", "")
	require.NoError(t, err)
	return f
}

func TestNewLeaf(t *testing.T) {
	f, err := terrain.NewLeaf("building", "Building", "A watchtower.", "")
	require.NoError(t, err)

	assert.Equal(t, terrain.Kind("building"), f.Kind())
	assert.Equal(t, "Building", f.Name())
	assert.Equal(t, "A watchtower.", f.Description())
	_, hasRules := f.Rules()
	assert.False(t, hasRules)
	assert.False(t, f.HasSubtype())
	assert.False(t, f.HasChildren())
	assert.Nil(t, f.Children())
	assert.False(t, f.Mysterious())

	_, err = terrain.NewLeaf("building", "", "", "")
	assert.True(t, terrerr.IsInvariantViolation(err))
	_, err = terrain.NewLeaf("", "Building", "", "")
	assert.True(t, terrerr.IsInvariantViolation(err))
}

func TestNewWithSubtype(t *testing.T) {
	fence := mustLeaf(t, "fence", "Fence")

	f, err := terrain.NewWithSubtype("obstacle", "Obstacle", "", "", fence)
	require.NoError(t, err)
	sub, ok := f.Subtype()
	require.True(t, ok)
	assert.Same(t, fence, sub)
	assert.True(t, f.HasSubtype())
	assert.False(t, f.HasChildren())

	_, err = terrain.NewWithSubtype("obstacle", "Obstacle", "", "", nil)
	assert.True(t, terrerr.IsInvariantViolation(err))
}

func TestNewComposite_ChildrenAreFixed(t *testing.T) {
	children := []*terrain.Feature{
		mustLeaf(t, "building", "Building"),
		mustLeaf(t, "steadfast-sanctum", "Steadfast Sanctum"),
	}

	f, err := terrain.NewComposite("settlement-of-order", "Settlement of Order", "", "", children)
	require.NoError(t, err)
	assert.True(t, f.HasChildren())
	assert.False(t, f.HasSubtype())

	children[0] = mustLeaf(t, "hill", "Hill")
	got := f.Children()
	got[1] = nil

	assert.Equal(t, "Building", f.Children()[0].Name())
	assert.NotNil(t, f.Children()[1])

	_, err = terrain.NewComposite("settlement-of-order", "Settlement of Order", "", "", nil)
	assert.True(t, terrerr.IsInvariantViolation(err))
	_, err = terrain.NewComposite("settlement-of-order", "Settlement of Order", "", "", []*terrain.Feature{nil})
	assert.True(t, terrerr.IsInvariantViolation(err))
}

func TestSettle(t *testing.T) {
	forest, err := terrain.NewMysterious("mysterious-forest", "Mysterious Forest", "Roll a further D6:", "Soft cover.")
	require.NoError(t, err)

	assert.True(t, forest.Mysterious())
	assert.False(t, forest.HasSubtype())
	_, ok := forest.Subtype()
	assert.False(t, ok)

	wildwood := mustLeaf(t, "wildwood", "Wildwood")
	require.NoError(t, forest.Settle(wildwood))

	assert.False(t, forest.Mysterious())
	sub, ok := forest.Subtype()
	require.True(t, ok)
	assert.Equal(t, "Wildwood", sub.Name())

	t.Run("second settle is unsupported", func(t *testing.T) {
		err := forest.Settle(mustLeaf(t, "forest", "Forest"))
		assert.True(t, terrerr.IsUnsupportedOperation(err))
		assert.Equal(t, true, terrerr.GetMeta(err)["already_resolved"])

		sub, _ := forest.Subtype()
		assert.Equal(t, "Wildwood", sub.Name())
	})

	t.Run("plain feature is unsupported", func(t *testing.T) {
		building := mustLeaf(t, "building", "Building")
		err := building.Settle(wildwood)
		assert.True(t, terrerr.IsUnsupportedOperation(err))
		assert.False(t, building.HasSubtype())
	})

	t.Run("nil subtype is an invariant violation", func(t *testing.T) {
		other, err := terrain.NewMysterious("mysterious-forest", "Mysterious Forest", "", "")
		require.NoError(t, err)
		assert.True(t, terrerr.IsInvariantViolation(other.Settle(nil)))
		assert.True(t, other.Mysterious())
	})
}

func TestFeatureJSON_Tree(t *testing.T) {
	sanctum, err := terrain.NewWithSubtype("steadfast-sanctum", "Steadfast Sanctum", "Roll a further D6:", "",
		mustLeaf(t, "grail-chapel", "Grail Chapel"))
	require.NoError(t, err)
	settlement, err := terrain.NewComposite("settlement-of-order", "Settlement of Order", "", "",
		[]*terrain.Feature{mustLeaf(t, "building", "Building"), sanctum})
	require.NoError(t, err)
	forest, err := terrain.NewMysterious("mysterious-forest", "Mysterious Forest", "", "Soft cover.")
	require.NoError(t, err)

	data, err := json.Marshal([]*terrain.Feature{settlement, forest})
	require.NoError(t, err)

	var decoded []*terrain.Feature
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.True(t, decoded[0].HasChildren())
	require.Len(t, decoded[0].Children(), 2)
	sub, ok := decoded[0].Children()[1].Subtype()
	require.True(t, ok)
	assert.Equal(t, "Grail Chapel", sub.Name())

	assert.True(t, decoded[1].Mysterious())
	rules, ok := decoded[1].Rules()
	assert.True(t, ok)
	assert.Equal(t, "Soft cover.", rules)
	assert.NoError(t, decoded[1].Settle(mustLeaf(t, "forest", "Forest")))
}

func TestFeatureJSON_RejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no name", raw: `{"kind":"hill","name":""}`},
		{name: "subtype and children", raw: `{"kind":"x","name":"X","hasSubtype":true,"subtype":{"kind":"y","name":"Y"},"hasChildren":true,"children":[{"kind":"z","name":"Z"}]}`},
		{name: "flag without subtype", raw: `{"kind":"x","name":"X","hasSubtype":true}`},
		{name: "mysterious with subtype", raw: `{"kind":"x","name":"X","hasSubtype":true,"subtype":{"kind":"y","name":"Y"},"mysterious":true}`},
		{name: "stray children", raw: `{"kind":"x","name":"X","children":[{"kind":"z","name":"Z"}]}`},
		{name: "composite without children", raw: `{"kind":"x","name":"X","hasChildren":true}`},
		{name: "composite with empty children", raw: `{"kind":"x","name":"X","hasChildren":true,"children":[]}`},
		{name: "mysterious composite", raw: `{"kind":"x","name":"X","hasChildren":true,"children":[{"kind":"z","name":"Z"}],"mysterious":true}`},
		{name: "mysterious with subtype flag", raw: `{"kind":"x","name":"X","hasSubtype":true,"mysterious":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f terrain.Feature
			err := json.Unmarshal([]byte(tt.raw), &f)
			assert.True(t, terrerr.IsInvariantViolation(err), "got %v", err)
		})
	}
}
