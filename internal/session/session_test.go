package session

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/warband/internal/data"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/parser"
)

type memStore struct {
	battles []uuid.UUID
	events  []engine.Event
}

func (m *memStore) Append(battle uuid.UUID, events ...engine.Event) error {
	for range events {
		m.battles = append(m.battles, battle)
	}
	m.events = append(m.events, events...)
	return nil
}

func newSession(t *testing.T, player, enemy *engine.Stack) (*Session, *memStore) {
	t.Helper()
	cat, err := data.NewCatalog(
		&data.UnitTemplate{ID: "footmen", Name: "Footmen", HP: 1, SkillLevel: 1, InitialMoves: 2, Melee: data.Range{Min: 1, Max: 1}, WeeklyCost: 10},
		&data.UnitTemplate{ID: "bowmen", Name: "Bowmen", HP: 5, SkillLevel: 1, InitialMoves: 1, Melee: data.Range{Min: 1, Max: 1}, Ranged: data.Range{Min: 2, Max: 2}, InitialAmmo: 3, WeeklyCost: 50},
	)
	require.NoError(t, err)

	world := &engine.Overworld{Leadership: 1000, SpellPower: 1}
	world.Spells[engine.SpellIDTeleport] = 1
	b, err := engine.StartBattle(engine.StartParams{
		Player:  [engine.SlotCount]*engine.Stack{player},
		Enemy:   [engine.SlotCount]*engine.Stack{enemy},
		World:   world,
		Catalog: cat,
		Roller:  engine.NewSequenceRoller(),
	})
	require.NoError(t, err)
	b.Drain()

	store := &memStore{}
	return New(b, store, nil), store
}

func TestExecuteMove(t *testing.T) {
	s, store := newSession(t, &engine.Stack{Species: "footmen", Count: 5}, &engine.Stack{Species: "footmen", Count: 5})

	events, err := s.Execute("move to: 1 0")
	require.NoError(t, err)
	require.Len(t, events, 1)
	moved, ok := events[0].(*engine.UnitMovedEvent)
	require.True(t, ok, "got %T", events[0])
	assert.Equal(t, engine.Pos{X: 1, Y: 0}, moved.To)

	assert.Equal(t, events, store.events)
	assert.Equal(t, []uuid.UUID{s.Battle().ID}, store.battles)
}

func TestExecuteRejectionIsRecorded(t *testing.T) {
	s, store := newSession(t, &engine.Stack{Species: "footmen", Count: 5}, &engine.Stack{Species: "footmen", Count: 5})

	events, err := s.Execute("move to: 9 9")
	require.Error(t, err)
	assert.True(t, engine.IsRejection(err))
	require.Len(t, events, 1)
	assert.Equal(t, "That is off the battlefield", events[0].Message())
	assert.Len(t, store.events, 1)
}

func TestExecuteParseErrorsAndHelp(t *testing.T) {
	s, store := newSession(t, &engine.Stack{Species: "footmen", Count: 5}, &engine.Stack{Species: "footmen", Count: 5})

	_, err := s.Execute("shoot 3")
	assert.EqualError(t, err, "The command shoot must be: shoot at: X Y")

	events, err := s.Execute("help")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, parser.Usage, events[0].Message())

	_, err = s.Execute("cast teleport at: 0 0")
	assert.ErrorContains(t, err, "cast teleport at: X Y to: X Y")

	assert.Empty(t, store.events, "nothing reached the battle")
}

func TestExecuteShootMode(t *testing.T) {
	s, _ := newSession(t, &engine.Stack{Species: "bowmen", Count: 3}, &engine.Stack{Species: "footmen", Count: 10})

	events, err := s.Execute("move to: 0 0")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Select a target to shoot", events[0].Message())
	assert.Equal(t, engine.CursorShoot, s.Battle().Mode())

	events, err = s.Execute("move to: 5 0")
	require.NoError(t, err)
	var hit *engine.AttackResolvedEvent
	for _, e := range events {
		if a, ok := e.(*engine.AttackResolvedEvent); ok {
			hit = a
		}
	}
	require.NotNil(t, hit)
	assert.Equal(t, engine.AttackRanged, hit.Mode)
	assert.Equal(t, 3, hit.Kills) // 2 * 3 * 5 / 10
}

func TestRunToEndNeedsAnUndrivenBattle(t *testing.T) {
	s, _ := newSession(t, &engine.Stack{Species: "footmen", Count: 5}, &engine.Stack{Species: "footmen", Count: 5})

	_, err := s.RunToEnd(10)
	assert.ErrorIs(t, err, ErrStalled)

	_, err = s.Execute("retreat")
	require.NoError(t, err)
	o, err := s.RunToEnd(10)
	require.NoError(t, err)
	assert.Equal(t, engine.ResultDisgrace, o.Result)
}

func TestToActionCast(t *testing.T) {
	p := parser.Build()
	active := engine.Ref{Team: engine.TeamPlayer, Slot: 2}

	tests := []struct {
		input string
		want  engine.Action
	}{
		{"cast clone at: 0 2", engine.SpellClone{At: engine.Pos{X: 0, Y: 2}}},
		{"cast teleport at: 0 2 to: 3 3", engine.SpellTeleport{At: engine.Pos{X: 0, Y: 2}, To: engine.Pos{X: 3, Y: 3}}},
		{"cast turn undead at: 5 1", engine.SpellTurnUndead{At: engine.Pos{X: 5, Y: 1}}},
		{"shoot at: 5 1", engine.TryShoot{From: active, To: engine.Pos{X: 5, Y: 1}}},
		{"wait", engine.Wait{From: active}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := p.ParseString("", tt.input)
			require.NoError(t, err)
			got, err := ToAction(cmd, active, engine.CursorMove)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	cmd, err := p.ParseString("", "cast fireball at: 5 1 to: 4 1")
	require.NoError(t, err)
	_, err = ToAction(cmd, active, engine.CursorMove)
	assert.Error(t, err)
}

func TestArchive(t *testing.T) {
	a := NewArchive(filepath.Join(t.TempDir(), "battles"))

	names, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"ridge", "bridge"} {
		store, err := a.Open(name)
		require.NoError(t, err)
		require.NoError(t, store.Close())
	}

	names, err = a.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"bridge", "ridge"}, names)
	assert.Equal(t, filepath.Join(a.Dir, "ridge.jsonl"), a.LogPath("ridge"))
}
