package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/suderio/warband/internal/data"
)

// testCatalog is a small species table with round numbers.
func testCatalog(t *testing.T) *data.Catalog {
	t.Helper()
	cat, err := data.NewCatalog(
		&data.UnitTemplate{ID: "footmen", Name: "Footmen", HP: 1, SkillLevel: 1, InitialMoves: 2, Melee: data.Range{Min: 1, Max: 1}, WeeklyCost: 10},
		&data.UnitTemplate{ID: "brutes", Name: "Brutes", HP: 30, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 10, Max: 10}, WeeklyCost: 100},
		&data.UnitTemplate{ID: "bowmen", Name: "Bowmen", HP: 5, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 1, Max: 1}, Ranged: data.Range{Min: 2, Max: 2}, InitialAmmo: 3, WeeklyCost: 50},
		&data.UnitTemplate{ID: "mages", Name: "Mages", HP: 10, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 1, Max: 1}, RangedFixed: 10, InitialAmmo: 2, Abilities: data.AbilityMagic, WeeklyCost: 200},
		&data.UnitTemplate{ID: "wyrms", Name: "Wyrms", HP: 100, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 5, Max: 5}, Abilities: data.AbilityFly | data.AbilityImmune, WeeklyCost: 1000},
		&data.UnitTemplate{ID: "bats", Name: "Bats", HP: 2, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 1, Max: 1}, Abilities: data.AbilityFly, WeeklyCost: 20},
		&data.UnitTemplate{ID: "ghouls", Name: "Ghouls", HP: 3, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 1, Max: 1}, Abilities: data.AbilityUndead, WeeklyCost: 30},
		&data.UnitTemplate{ID: "trolls", Name: "Trolls", HP: 20, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 2, Max: 2}, Abilities: data.AbilityRegen, WeeklyCost: 300},
	)
	require.NoError(t, err)
	return cat
}

func testWorld() *Overworld {
	w := &Overworld{Leadership: 1_000_000, SpellPower: 1}
	for i := range w.Spells {
		w.Spells[i] = 2
	}
	return w
}

func army(stacks ...*Stack) [SlotCount]*Stack {
	var out [SlotCount]*Stack
	copy(out[:], stacks)
	return out
}

func st(species string, count int) *Stack {
	return &Stack{Species: species, Count: count}
}

// newBattle starts a battle with an empty dice queue, zero delay and a world
// that controls every stack.
func newBattle(t *testing.T, player, enemy [SlotCount]*Stack, opts ...func(*StartParams)) *Battle {
	t.Helper()
	p := StartParams{
		Player:  player,
		Enemy:   enemy,
		World:   testWorld(),
		Catalog: testCatalog(t),
		Roller:  NewSequenceRoller(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	b, err := StartBattle(p)
	require.NoError(t, err)
	b.Drain()
	return b
}

func pref(slot int) Ref { return Ref{Team: TeamPlayer, Slot: slot} }
func eref(slot int) Ref { return Ref{Team: TeamEnemy, Slot: slot} }

// tick fires the pending continuation, if any, and lets the AI act once.
func tick(b *Battle) []Event {
	return b.Tick(time.Hour)
}

func eventsOf[E Event](events []Event) []E {
	var out []E
	for _, e := range events {
		if v, ok := e.(E); ok {
			out = append(out, v)
		}
	}
	return out
}

func statuses(events []Event) []string {
	var out []string
	for _, e := range eventsOf[*StatusEvent](events) {
		out = append(out, e.Text)
	}
	return out
}

func pendingKind(t *testing.T, b *Battle) ContinuationKind {
	t.Helper()
	c, ok := b.Pending()
	require.True(t, ok, "expected a pending continuation")
	return c.Kind
}
