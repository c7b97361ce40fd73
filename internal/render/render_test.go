package render_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/render"
	"github.com/KirkDiggler/battlefield-terrain/internal/testutils"
)

func TestTitle(t *testing.T) {
	features := testutils.CreateTestFeatures()

	assert.Equal(t, "Building", render.Title(features[0]))
	assert.Equal(t, "Obstacle: Wall", render.Title(features[1]))
	assert.Equal(t, "Mysterious Forest (unresolved)", render.Title(features[2]))
}

func TestFeatureMarkdown_Composite(t *testing.T) {
	building, err := terrain.NewLeaf("building", "Building", "A house.", "")
	require.NoError(t, err)
	fence, err := terrain.NewLeaf("fence", "Fence", "Wooden fence.", "Fences grant soft cover.")
	require.NoError(t, err)
	obstacle, err := terrain.NewWithSubtype("obstacle", "Obstacle", "Roll a D6:", "", fence)
	require.NoError(t, err)
	settlement, err := terrain.NewComposite("settlement-of-order", "Settlement of Order", "A small village.", "", []*terrain.Feature{building, obstacle})
	require.NoError(t, err)

	expected := strings.Join([]string{
		"A small village.",
		"- **Building**",
		"- **Obstacle: Fence**",
		"  > Fences grant soft cover.",
	}, "\n")
	assert.Equal(t, expected, render.FeatureMarkdown(settlement))
}

func TestBattlefieldMarkdown(t *testing.T) {
	field := testutils.CreateTestBattlefield("bf-1", "user-1")

	out := render.BattlefieldMarkdown(field)
	assert.Contains(t, out, "## Battlefield `bf-1`")
	assert.Contains(t, out, "Seed `42`, 3 pieces of terrain")
	assert.Contains(t, out, "### 1. Building")
	assert.Contains(t, out, "### 2. Obstacle: Wall")
	assert.Contains(t, out, "> Walls are obstacles that grant hard cover.")
	assert.Contains(t, out, "### 3. Mysterious Forest (unresolved)")
	assert.Contains(t, out, "_1 mysterious feature(s) not yet resolved_")
}

func TestLogMarkdown(t *testing.T) {
	log := []string{"D6+4 Terrain Pieces [2]", "", "Rolling for 6 pieces of terrain..."}

	out := render.LogMarkdown(log, 0)
	assert.Equal(t, "```\nD6+4 Terrain Pieces [2]\n\nRolling for 6 pieces of terrain...\n```", out)
}

func TestLogMarkdown_Truncates(t *testing.T) {
	log := make([]string, 200)
	for i := range log {
		log[i] = fmt.Sprintf("2d6 on the Random Terrain Table [%d, %d]", i%6+1, (i+3)%6+1)
	}

	out := render.LogMarkdown(log, render.DiscordContentLimit)
	assert.LessOrEqual(t, len(out), render.DiscordContentLimit)
	assert.True(t, strings.HasPrefix(out, "```\n2d6 on the Random Terrain Table [1, 4]\n"))
	assert.Contains(t, out, "```\n... ")
	assert.True(t, strings.HasSuffix(out, "more lines"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", render.Truncate("short", 10))
	assert.Equal(t, "one\ntwo", render.Truncate("one\ntwo\nthree", 9))
	assert.Equal(t, "abcd", render.Truncate("abcdefgh", 4))
	assert.Equal(t, "ab", render.Truncate("abé", 3))
}

func TestTerminal(t *testing.T) {
	field := testutils.CreateTestBattlefield("bf-1", "user-1")

	out := render.Terminal(field, 0)
	assert.Contains(t, out, "Battlefield bf-1")
	assert.Contains(t, out, "seed 42, 3 pieces")
	assert.Contains(t, out, "[0] Building")
	assert.Contains(t, out, "[1] Obstacle: Wall")
	assert.Contains(t, out, "Walls are obstacles that grant hard cover.")
	assert.Contains(t, out, "[2] Mysterious Forest (unresolved)")
	assert.Contains(t, out, "unresolved: 2")
}

func TestTerminalLog(t *testing.T) {
	out := render.TerminalLog([]string{"D6+4 Terrain Pieces [3]", "", "Rolling for 7 pieces of terrain..."})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "D6+4 Terrain Pieces [3]")
	assert.Contains(t, lines[2], "Rolling for 7 pieces of terrain...")
}
