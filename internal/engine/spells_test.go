package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpellsRejectImmuneTargets(t *testing.T) {
	friendly, foe := Pos{X: 0, Y: 1}, Pos{X: 5, Y: 0}
	tests := []struct {
		name   string
		spell  SpellID
		action Action
		target Ref
	}{
		{"clone", SpellIDClone, SpellClone{At: friendly}, pref(1)},
		{"teleport", SpellIDTeleport, SpellTeleport{At: friendly, To: Pos{X: 3, Y: 3}}, pref(1)},
		{"freeze", SpellIDFreeze, SpellFreeze{At: foe}, eref(0)},
		{"resurrect", SpellIDResurrect, SpellResurrect{At: friendly}, pref(1)},
		{"fireball", SpellIDFireball, SpellFireball{At: foe}, eref(0)},
		{"lightning", SpellIDLightning, SpellLightning{At: foe}, eref(0)},
		{"turn undead", SpellIDTurnUndead, SpellTurnUndead{At: foe}, eref(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBattle(t, army(st("footmen", 5), st("wyrms", 2)), army(st("wyrms", 2), st("footmen", 5)))
			b.Unit(pref(1)).Count = 1
			before := *b.Unit(tt.target)

			err := b.Submit(tt.action)

			require.ErrorIs(t, err, ErrImmuneTarget)
			assert.Equal(t, before, *b.Unit(tt.target), "immune stacks are untouched")
			assert.Equal(t, 1, b.World().Spells[tt.spell], "the charge spent on confirmation stays spent")
			assert.True(t, b.SpellUsed())
			assert.Contains(t, statuses(b.Drain()), "Wyrms are immune to magic")
			_, pending := b.Pending()
			assert.False(t, pending)
		})
	}
}

func TestSpellClone(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 5)), func(p *StartParams) {
		p.World.SpellPower = 2
	})

	require.NoError(t, b.Submit(SpellClone{At: Pos{X: 0, Y: 0}}))

	assert.Equal(t, 25, b.Unit(pref(0)).Count)
	assert.Equal(t, 1, b.World().Spells[SpellIDClone])
	assert.Equal(t, ContResume, pendingKind(t, b))
	casts := eventsOf[*SpellCastEvent](b.Drain())
	require.Len(t, casts, 1)
	assert.Equal(t, SpellIDClone, casts[0].Spell)

	tick(b)
	assert.Equal(t, pref(0), b.Active(), "casting does not end the unit's turn")
	assert.True(t, b.IsPlayerTurn())
}

func TestSpellResurrectCap(t *testing.T) {
	tests := []struct {
		name      string
		power     int
		count     int
		killed    int
		wantCount int
		wantKill  int
	}{
		{"capped by power", 2, 10, 15, 50, 0},
		{"capped by losses", 1, 45, 30, 50, 25},
		{"full stack", 3, 50, 4, 50, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBattle(t, army(st("footmen", 50)), army(st("footmen", 5)), func(p *StartParams) {
				p.World.SpellPower = tt.power
				p.World.FollowersKilled = tt.killed
			})
			b.Unit(pref(0)).Count = tt.count

			require.NoError(t, b.Submit(SpellResurrect{At: Pos{X: 0, Y: 0}}))

			assert.Equal(t, tt.wantCount, b.Unit(pref(0)).Count)
			assert.Equal(t, tt.wantKill, b.World().FollowersKilled)
		})
	}
}

func TestSpellTeleport(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 5)))

	err := b.Submit(SpellTeleport{At: Pos{X: 5, Y: 0}, To: Pos{X: 0, Y: 0}})
	require.ErrorIs(t, err, ErrInvalidTarget)
	assert.Equal(t, 2, b.World().Spells[SpellIDTeleport], "a bad destination costs nothing")

	require.NoError(t, b.Submit(SpellTeleport{At: Pos{X: 5, Y: 0}, To: Pos{X: 2, Y: 4}}))
	assert.Equal(t, Pos{X: 2, Y: 4}, b.Unit(eref(0)).Pos, "enemies can be teleported too")
	moved := eventsOf[*UnitMovedEvent](b.Drain())
	require.Len(t, moved, 1)
	assert.Equal(t, Pos{X: 5, Y: 0}, moved[0].From)
}

func TestSpellFireball(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 30), st("footmen", 3)))

	require.NoError(t, b.Submit(SpellFireball{At: Pos{X: 5, Y: 0}}))

	assert.Equal(t, 5, b.Unit(eref(0)).Count)
	assert.Equal(t, 25, b.World().FollowersKilled)
	assert.Equal(t, ContClearDead, pendingKind(t, b))

	tick(b)
	assert.Equal(t, pref(0), b.Active())
	assert.Nil(t, b.Outcome())
}

func TestSpellLightningCanWinTheBattle(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 30)), func(p *StartParams) {
		p.World.SpellPower = 3
	})

	require.NoError(t, b.Submit(SpellLightning{At: Pos{X: 5, Y: 0}}))
	assert.Nil(t, b.Outcome())

	tick(b)
	require.NotNil(t, b.Outcome())
	assert.Equal(t, ResultVictory, b.Outcome().Result)
}

func TestSpellTurnUndead(t *testing.T) {
	t.Run("undead", func(t *testing.T) {
		b := newBattle(t, army(st("footmen", 5)), army(st("ghouls", 20)))
		require.NoError(t, b.Submit(SpellTurnUndead{At: Pos{X: 5, Y: 0}}))
		u := b.Unit(eref(0))
		assert.Equal(t, 4, u.Count)
		assert.Equal(t, 2, u.Injury)
	})

	t.Run("living target is a wasted charge", func(t *testing.T) {
		b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 20)))
		require.NoError(t, b.Submit(SpellTurnUndead{At: Pos{X: 5, Y: 0}}))
		assert.Equal(t, 20, b.Unit(eref(0)).Count)
		assert.Equal(t, 1, b.World().Spells[SpellIDTurnUndead])
		assert.Contains(t, statuses(b.Drain()), "Turn Undead has no effect on Footmen")
		assert.Equal(t, ContResume, pendingKind(t, b))
	})
}

func TestSpellPreflight(t *testing.T) {
	t.Run("one spell per round", func(t *testing.T) {
		b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 30)))
		require.NoError(t, b.Submit(SpellFreeze{At: Pos{X: 5, Y: 0}}))
		tick(b)

		err := b.Submit(SpellFireball{At: Pos{X: 5, Y: 0}})
		require.ErrorIs(t, err, ErrActionNotAllowed)
		assert.Equal(t, []string{"You may only cast one spell per round"}, statuses(b.Drain()))
		assert.Equal(t, 2, b.World().Spells[SpellIDFireball])
	})

	t.Run("no charges", func(t *testing.T) {
		b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 30)), func(p *StartParams) {
			p.World.Spells[SpellIDFireball] = 0
		})
		err := b.Submit(SpellFireball{At: Pos{X: 5, Y: 0}})
		require.ErrorIs(t, err, ErrActionNotAllowed)
		assert.False(t, b.SpellUsed())
	})

	t.Run("wrong side", func(t *testing.T) {
		b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 30)))
		tests := []Action{
			SpellClone{At: Pos{X: 5, Y: 0}},
			SpellResurrect{At: Pos{X: 5, Y: 0}},
			SpellFreeze{At: Pos{X: 0, Y: 0}},
			SpellFireball{At: Pos{X: 0, Y: 0}},
			SpellLightning{At: Pos{X: 3, Y: 3}},
		}
		for _, a := range tests {
			assert.ErrorIs(t, b.Submit(a), ErrInvalidTarget, "%T", a)
		}
		assert.False(t, b.SpellUsed())
		for _, id := range []SpellID{SpellIDClone, SpellIDResurrect, SpellIDFreeze, SpellIDFireball, SpellIDLightning} {
			assert.Equal(t, 2, b.World().Spells[id], id.String())
		}
	})
}
