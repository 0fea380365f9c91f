package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerrain(t *testing.T) {
	terrain, err := ParseTerrain([]string{
		"......",
		"..#...",
		"......",
		"....##",
		"......",
	})
	require.NoError(t, err)
	assert.True(t, terrain.Blocked(Pos{X: 2, Y: 1}))
	assert.True(t, terrain.Blocked(Pos{X: 5, Y: 3}))
	assert.False(t, terrain.Blocked(Pos{X: 0, Y: 0}))
	assert.True(t, terrain.Blocked(Pos{X: 6, Y: 0}), "off-grid is blocked")

	empty, err := ParseTerrain(nil)
	require.NoError(t, err)
	assert.Equal(t, Terrain{}, empty)

	_, err = ParseTerrain([]string{"......"})
	assert.ErrorContains(t, err, "terrain must have 5 rows")
	_, err = ParseTerrain([]string{"......", "......", "..x...", "......", "......"})
	assert.ErrorContains(t, err, "unknown tile")
}

func TestParseSpellID(t *testing.T) {
	for input, want := range map[string]SpellID{
		"fireball":    SpellIDFireball,
		"Turn Undead": SpellIDTurnUndead,
		"turn_undead": SpellIDTurnUndead,
		"time-stop":   SpellIDTimeStop,
	} {
		got, err := ParseSpellID(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseSpellID("meteor")
	assert.Error(t, err)

	assert.True(t, SpellIDTurnUndead.Combat())
	assert.False(t, SpellIDBridge.Combat())
}

func TestParseArtifact(t *testing.T) {
	a, err := ParseArtifact("Sword of Prowess")
	require.NoError(t, err)
	assert.Equal(t, ArtifactSword, a)

	a, err = ParseArtifact("shield")
	require.NoError(t, err)
	assert.Equal(t, ArtifactShield, a)

	_, err = ParseArtifact("lamp")
	assert.Error(t, err)
}
