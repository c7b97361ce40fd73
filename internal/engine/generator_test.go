package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	mockdice "github.com/KirkDiggler/battlefield-terrain/internal/dice/mock"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	"github.com/KirkDiggler/battlefield-terrain/internal/engine"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

var forestVariants = []string{
	"Forest",
	"Abyssal Wood",
	"Blood Forest",
	"Fungus Forest",
	"Venom Thicket",
	"Wildwood",
}

func newScripted(t *testing.T, rolls ...int) (*engine.Generator, *mockdice.ManualMockRoller) {
	t.Helper()
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls(rolls)
	return engine.New(&engine.Config{Catalog: catalog.MustLoad(), Roller: roller}), roller
}

func TestGenerateBattlefield_ForcedPieceCount(t *testing.T) {
	// d6 of 3 gives seven pieces, every 2d6 of [3, 3] is a building
	rolls := []int{3}
	for i := 0; i < 7; i++ {
		rolls = append(rolls, 3, 3)
	}
	g, roller := newScripted(t, rolls...)

	features, err := g.GenerateBattlefield(engine.DefaultBattlefieldConfig(catalog.MustLoad()))
	require.NoError(t, err)
	require.Len(t, features, 7)
	for _, f := range features {
		assert.Equal(t, terrain.Kind("building"), f.Kind())
	}
	assert.Zero(t, roller.Remaining())

	expectedLog := []string{
		"D6+4 Terrain Pieces [3]",
		"",
		"Rolling for 7 pieces of terrain...",
	}
	for i := 0; i < 7; i++ {
		expectedLog = append(expectedLog, "2d6 on the Random Terrain Table [3, 3]")
	}
	assert.Equal(t, expectedLog, g.ReadLog())
}

func TestGenerateBattlefield_ScriptedTrace(t *testing.T) {
	// five pieces: a settlement with two buildings and one obstacle that
	// rerolls into a Wall plus a Wizards Tower, a clamped 12 giving a Ghost
	// Fence, a building, a mysterious forest and an Idol of Gork
	g, roller := newScripted(t,
		1,
		1, 1, 2, 1, 6, 2, 3,
		6, 6, 5,
		3, 3,
		4, 3,
		2, 2, 5,
	)

	features, err := g.GenerateBattlefield(nil)
	require.NoError(t, err)
	require.Len(t, features, 5)
	assert.Zero(t, roller.Remaining())

	assert.Equal(t, []string{
		"D6+4 Terrain Pieces [1]",
		"",
		"Rolling for 5 pieces of terrain...",
		"2d6 on the Random Terrain Table [1, 1]",
		"D3 Buildings [2]",
		"D3 Obstacles [1]",
		"D6 on the Obstacle Table [6]",
		"D6 on the Obstacle Table [2]",
		"Result: Wall",
		"D6 on the Steadfast Sanctum Table [3]",
		"Result: Wizards Tower",
		"2d6 on the Random Terrain Table [6, 6]",
		"D6 on the Obstacle Table [5]",
		"Result: Ghost Fence",
		"2d6 on the Random Terrain Table [3, 3]",
		"2d6 on the Random Terrain Table [4, 3]",
		"2d6 on the Random Terrain Table [2, 2]",
		"D6 on the Sinister Structure Table [5]",
		"Result: Idol of Gork (or possibly Mork)",
	}, g.ReadLog())

	settlement := features[0]
	assert.Equal(t, "Settlement of Order", settlement.Name())
	assert.True(t, settlement.HasChildren())
	assert.False(t, settlement.HasSubtype())
	children := settlement.Children()
	require.Len(t, children, 4)
	assert.Equal(t, "Building", children[0].Name())
	assert.Equal(t, "Building", children[1].Name())
	wall, ok := children[2].Subtype()
	require.True(t, ok)
	assert.Equal(t, "Wall", wall.Name())
	tower, ok := children[3].Subtype()
	require.True(t, ok)
	assert.Equal(t, "Wizards Tower", tower.Name())

	ghost, ok := features[1].Subtype()
	require.True(t, ok)
	assert.Equal(t, "Ghost Fence", ghost.Name())

	forest := features[3]
	assert.True(t, forest.Mysterious())
	assert.False(t, forest.HasSubtype())
	_, ok = forest.Subtype()
	assert.False(t, ok)
	rules, ok := forest.Rules()
	assert.True(t, ok)
	assert.Contains(t, rules, "Soft cover")

	assert.Equal(t, []string{"3"}, terrain.Mysteries(features))
}

func TestResolve_MysteriousForest(t *testing.T) {
	// one forest followed by four buildings
	g, roller := newScripted(t,
		1,
		4, 3,
		3, 3, 3, 3, 3, 3, 3, 3,
		4, // resolving roll
	)

	features, err := g.GenerateBattlefield(nil)
	require.NoError(t, err)
	forest := features[0]
	require.True(t, forest.Mysterious())

	before := len(g.ReadLog())
	require.NoError(t, g.Resolve(forest))
	assert.Zero(t, roller.Remaining())

	assert.False(t, forest.Mysterious())
	assert.True(t, forest.HasSubtype())
	subtype, ok := forest.Subtype()
	require.True(t, ok)
	assert.Equal(t, "Fungus Forest", subtype.Name())
	assert.Contains(t, forestVariants, subtype.Name())

	log := g.ReadLog()
	require.Len(t, log, before+3)
	assert.Equal(t, []string{
		"",
		"D6 Resolving Mysterious Forest [4]",
		"Result: Fungus Forest",
	}, log[before:])

	// a second resolve is rejected and rolls nothing
	roller.SetNextRoll(1)
	err = g.Resolve(forest)
	require.Error(t, err)
	assert.True(t, terrerr.IsUnsupportedOperation(err))
	assert.Equal(t, true, terrerr.GetMeta(err)["already_resolved"])
	assert.Len(t, g.ReadLog(), before+3)
	assert.Equal(t, 1, roller.Remaining())
	again, _ := forest.Subtype()
	assert.Same(t, subtype, again)
}

func TestResolve_NonMysteriousIsUnsupported(t *testing.T) {
	g, roller := newScripted(t, 1, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3)

	features, err := g.GenerateBattlefield(nil)
	require.NoError(t, err)
	building := features[0]
	require.Equal(t, "Building", building.Name())

	before, err := json.Marshal(building)
	require.NoError(t, err)
	logLen := len(g.ReadLog())

	roller.SetNextRoll(2)
	err = g.Resolve(building)
	require.Error(t, err)
	assert.True(t, terrerr.IsUnsupportedOperation(err))

	after, err := json.Marshal(building)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.Len(t, g.ReadLog(), logLen)
	assert.Equal(t, 1, roller.Remaining())
}

func TestResolve_Errors(t *testing.T) {
	g, _ := newScripted(t)

	err := g.Resolve(nil)
	assert.True(t, terrerr.IsInvalidArgument(err))

	marsh, err := terrain.NewMysterious("marsh", "Marsh", "", "")
	require.NoError(t, err)
	err = g.Resolve(marsh)
	assert.True(t, terrerr.IsInvariantViolation(err))
	assert.Empty(t, g.ReadLog())
}

func TestResolve_FailedRollLeavesLogAlone(t *testing.T) {
	// one forest followed by four buildings, nothing scripted for the resolve
	g, roller := newScripted(t,
		1,
		4, 3,
		3, 3, 3, 3, 3, 3, 3, 3,
	)

	features, err := g.GenerateBattlefield(nil)
	require.NoError(t, err)
	forest := features[0]
	logBefore := g.ReadLog()

	err = g.Resolve(forest)
	require.Error(t, err)
	assert.Equal(t, logBefore, g.ReadLog())
	assert.True(t, forest.Mysterious())

	// the forest can still be resolved once a roll is available
	roller.SetNextRoll(2)
	require.NoError(t, g.Resolve(forest))
	assert.Equal(t, []string{
		"",
		"D6 Resolving Mysterious Forest [2]",
		"Result: Abyssal Wood",
	}, g.ReadLog()[len(logBefore):])
}

func TestSettlementOfOrder_ChildBounds(t *testing.T) {
	c := catalog.MustLoad()

	for seed := int64(1); seed <= 200; seed++ {
		g := engine.New(&engine.Config{Catalog: c, Roller: dice.NewRandomRoller(seed)})
		features, err := g.GenerateBattlefield(&engine.BattlefieldConfig{
			Kinds: []terrain.Kind{"settlement-of-order"},
		})
		require.NoError(t, err, "seed %d", seed)

		for _, settlement := range features {
			children := settlement.Children()
			assert.GreaterOrEqual(t, len(children), 3)
			assert.LessOrEqual(t, len(children), 7)

			sanctums := 0
			for _, child := range children {
				switch child.Kind() {
				case "steadfast-sanctum":
					sanctums++
				case "building", "obstacle":
				default:
					t.Errorf("seed %d: unexpected settlement child %q", seed, child.Kind())
				}
			}
			assert.Equal(t, 1, sanctums, "seed %d", seed)
			assert.Equal(t, terrain.Kind("steadfast-sanctum"), children[len(children)-1].Kind())
		}
	}
}

func TestGenerateBattlefield_PieceRange(t *testing.T) {
	c := catalog.MustLoad()
	seen := map[int]bool{}

	for seed := int64(0); seed < 300; seed++ {
		g := engine.New(&engine.Config{Catalog: c, Roller: dice.NewRandomRoller(seed)})
		features, err := g.GenerateBattlefield(nil)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(features), 5)
		require.LessOrEqual(t, len(features), 10)
		seen[len(features)] = true
	}

	assert.Len(t, seen, 6)
}

func TestGenerateBattlefield_SameSeedSameField(t *testing.T) {
	c := catalog.MustLoad()

	run := func() ([]byte, []string) {
		g := engine.New(&engine.Config{Catalog: c, Roller: dice.NewRandomRoller(99)})
		features, err := g.GenerateBattlefield(nil)
		require.NoError(t, err)
		data, err := json.Marshal(features)
		require.NoError(t, err)
		return data, g.ReadLog()
	}

	firstJSON, firstLog := run()
	secondJSON, secondLog := run()
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
	assert.Equal(t, firstLog, secondLog)
}

func TestResolve_RestoredRollerMatchesLiveRoller(t *testing.T) {
	c := catalog.MustLoad()
	forestOnly := &engine.BattlefieldConfig{Kinds: []terrain.Kind{"mysterious-forest"}}

	live := dice.NewRandomRoller(1234)
	g := engine.New(&engine.Config{Catalog: c, Roller: live})
	features, err := g.GenerateBattlefield(forestOnly)
	require.NoError(t, err)

	data, err := json.Marshal(features)
	require.NoError(t, err)
	var restored []*terrain.Feature
	require.NoError(t, json.Unmarshal(data, &restored))

	later := engine.New(&engine.Config{
		Catalog: c,
		Roller:  dice.RestoreRandomRoller(live.Seed(), live.Draws()),
	})

	resolvedLive, err := g.ResolvePending(features)
	require.NoError(t, err)
	resolvedLater, err := later.ResolvePending(restored)
	require.NoError(t, err)
	assert.Equal(t, resolvedLive, resolvedLater)
	assert.Equal(t, len(features), len(resolvedLive))

	for i := range features {
		a, ok := features[i].Subtype()
		require.True(t, ok)
		b, ok := restored[i].Subtype()
		require.True(t, ok)
		assert.Equal(t, a.Name(), b.Name())
	}
	assert.Empty(t, terrain.Mysteries(features))
}

func TestGenerateBattlefield_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		g, _ := newScripted(t)
		_, err := g.GenerateBattlefield(&engine.BattlefieldConfig{Kinds: []terrain.Kind{"volcano"}})
		assert.True(t, terrerr.IsInvalidArgument(err))
		assert.Empty(t, g.ReadLog())
	})

	t.Run("reroll cap", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{1, 1, 1, 6, 6, 6, 6})
		g := engine.New(&engine.Config{Catalog: catalog.MustLoad(), Roller: roller, MaxRerolls: 3})

		_, err := g.GenerateBattlefield(&engine.BattlefieldConfig{Kinds: []terrain.Kind{"obstacle"}})
		require.Error(t, err)
		assert.True(t, terrerr.IsInvariantViolation(err))
		assert.Zero(t, roller.Remaining())
	})

	t.Run("roller runs dry", func(t *testing.T) {
		g, _ := newScripted(t, 2)
		_, err := g.GenerateBattlefield(nil)
		require.Error(t, err)
	})
}

func TestNew_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { engine.New(nil) })
	assert.Panics(t, func() { engine.New(&engine.Config{Roller: dice.NewRandomRoller(1)}) })
	assert.Panics(t, func() { engine.New(&engine.Config{Catalog: catalog.MustLoad()}) })
}
