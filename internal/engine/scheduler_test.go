package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceTurnOrder(t *testing.T) {
	b := newBattle(t,
		army(st("footmen", 5), st("footmen", 5)),
		army(st("footmen", 5), st("footmen", 5)))
	require.Equal(t, pref(0), b.Active())

	want := []Ref{pref(1), eref(0), eref(1), pref(0)}
	for i, w := range want {
		b.advance()
		assert.Equal(t, w, b.Active(), "advance #%d", i+1)
	}
}

func TestAdvanceSkipsEmptyAndDeadSlots(t *testing.T) {
	b := newBattle(t,
		army(nil, st("footmen", 5), nil, st("footmen", 5)),
		army(st("footmen", 5)))
	require.Equal(t, pref(1), b.Active())

	b.Unit(pref(3)).Count = 0
	b.advance()
	assert.Equal(t, eref(0), b.Active())
}

func TestStartRoundResetsBothTeams(t *testing.T) {
	b := newBattle(t, army(st("bats", 5), st("trolls", 2)), army(st("footmen", 5)))
	bats, trolls, foe := b.Unit(pref(0)), b.Unit(pref(1)), b.Unit(eref(0))
	assert.True(t, bats.Flying, "flyers start airborne when no enemy is adjacent")

	bats.Moves, bats.Waits, bats.Retaliated = 0, 2, true
	trolls.Injury = 7
	foe.Moves = 0
	b.spellUsed = true
	round := b.Round()

	b.startRound(TeamEnemy)

	assert.Equal(t, round+1, b.Round())
	assert.Equal(t, 1, bats.Moves)
	assert.Zero(t, bats.Waits)
	assert.False(t, bats.Retaliated)
	assert.Zero(t, trolls.Injury, "regenerating stacks heal at round start")
	assert.Equal(t, 2, foe.Moves)
	assert.False(t, b.SpellUsed())
}

func TestStartRoundFlyingNeedsFreeAir(t *testing.T) {
	b := newBattle(t, army(st("bats", 5)), army(st("footmen", 5)))
	b.Unit(eref(0)).Pos = Pos{X: 1, Y: 1}

	b.startRound(TeamPlayer)

	assert.False(t, b.Unit(pref(0)).Flying)
}

func TestStartRoundOutOfControl(t *testing.T) {
	b := newBattle(t, army(st("footmen", 10), st("footmen", 2)), army(st("brutes", 50)), func(p *StartParams) {
		p.World.Leadership = 5
	})

	assert.True(t, b.Unit(pref(0)).OutOfControl)
	assert.False(t, b.Unit(pref(1)).OutOfControl)
	assert.False(t, b.Unit(eref(0)).OutOfControl, "only the player side can rebel")
}

func TestWaitCap(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 5)))

	require.NoError(t, b.Submit(Wait{From: pref(0)}))
	assert.Equal(t, ContWaitAdvance, pendingKind(t, b))
	tick(b)
	require.Equal(t, pref(0), b.Active())

	require.NoError(t, b.Submit(Wait{From: pref(0)}))
	tick(b)
	require.Equal(t, pref(0), b.Active(), "a unit that waited twice still gets its turn")

	err := b.Submit(Wait{From: pref(0)})
	require.ErrorIs(t, err, ErrActionNotAllowed)
	assert.Equal(t, 2, b.Unit(pref(0)).Waits)
	assert.Equal(t, []string{"Footmen can't wait any longer"}, statuses(b.Drain()))
}

func TestWaitPrefersUnitsWithWaitsLeft(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5), st("footmen", 5)), army(st("footmen", 5)))

	require.NoError(t, b.Submit(Wait{From: pref(0)}))
	tick(b)
	assert.Equal(t, pref(1), b.Active())

	require.NoError(t, b.Submit(Pass{From: pref(1)}))
	tick(b)
	assert.Equal(t, pref(0), b.Active(), "the waiting unit comes back before the team switches")
}

func TestFrozenUnitSkipsTurn(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 5), st("footmen", 5)))

	require.NoError(t, b.Submit(SpellFreeze{At: Pos{X: 5, Y: 0}}))
	require.True(t, b.Unit(eref(0)).Frozen)
	tick(b)

	require.NoError(t, b.Submit(Pass{From: pref(0)}))
	events := tick(b)

	assert.Equal(t, eref(0), b.Active())
	assert.False(t, b.Unit(eref(0)).Frozen)
	assert.Contains(t, statuses(events), "Footmen are frozen")
	assert.Equal(t, ContAdvance, pendingKind(t, b))

	tick(b)
	assert.Equal(t, eref(1), b.Active())
}

func TestFrozenUnitWithAdjacentEnemyActs(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 5)))
	require.NoError(t, b.Submit(SpellFreeze{At: Pos{X: 5, Y: 0}}))
	tick(b)
	b.Unit(pref(0)).Pos = Pos{X: 4, Y: 0}

	require.NoError(t, b.Submit(Pass{From: pref(0)}))
	tick(b)

	assert.Equal(t, eref(0), b.Active())
	assert.False(t, b.Unit(eref(0)).Frozen)
	assert.Equal(t, ContRetaliate, pendingKind(t, b), "a thawed unit in contact takes its turn")
}

func TestClearDeadEmitsBeforeEmptyingSlot(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5)), army(st("footmen", 5), st("ghouls", 2)))
	b.Unit(eref(1)).Count = 0
	assert.Nil(t, b.UnitAt(Pos{X: 5, Y: 1}), "dead stacks are invisible before the sweep")
	require.NotNil(t, b.Unit(eref(1)))

	b.clearDead()

	assert.Nil(t, b.Unit(eref(1)))
	died := eventsOf[*UnitDiedEvent](b.Drain())
	require.Len(t, died, 1)
	assert.Equal(t, "Ghouls", died[0].Name)
}

func TestPhase(t *testing.T) {
	b := newBattle(t, army(st("footmen", 5), st("footmen", 5)), army(st("footmen", 5)))
	assert.Equal(t, PhaseSelecting, b.Phase())

	require.NoError(t, b.Submit(Pass{From: pref(0)}))
	assert.Equal(t, PhaseAwaitingDelay, b.Phase())
	assert.ErrorIs(t, b.Submit(Retreat{}), ErrActionNotAllowed)

	tick(b)
	require.Equal(t, pref(1), b.Active())
	require.NoError(t, b.Submit(Retreat{}))
	assert.Equal(t, PhaseOver, b.Phase())
}
