package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/warband/internal/engine"
)

func TestStoreAppendLoad(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.jsonl")

	store, err := NewStore(logPath)
	require.NoError(t, err)
	defer store.Close()

	first, second := uuid.New(), uuid.New()
	attacker := engine.Ref{Team: engine.TeamPlayer, Slot: 0}
	require.NoError(t, store.Append(first,
		&engine.TurnChangedEvent{Unit: attacker, Name: "Peasants", Round: 1},
		&engine.AttackResolvedEvent{
			Attacker:     &attacker,
			AttackerName: "Peasants",
			Defender:     engine.Ref{Team: engine.TeamEnemy, Slot: 2},
			DefenderName: "Wolves",
			Mode:         engine.AttackMelee,
			Damage:       12,
			Kills:        3,
		},
	))
	require.NoError(t, store.Append(second, &engine.BattleEndedEvent{Result: engine.ResultVictory, Gold: 40}))
	require.NoError(t, store.Append(first, &engine.UnitDiedEvent{Unit: engine.Ref{Team: engine.TeamEnemy, Slot: 2}, Name: "Wolves"}))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []uuid.UUID{first, second}, Battles(records))

	hit, ok := records[1].Event.(*engine.AttackResolvedEvent)
	require.True(t, ok, "got %T", records[1].Event)
	require.NotNil(t, hit.Attacker)
	assert.Equal(t, attacker, *hit.Attacker)
	assert.Equal(t, 3, hit.Kills)

	events, err := store.LoadBattle(first)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.IsType(t, &engine.UnitDiedEvent{}, events[2])

	report := engine.Summarize(events)
	assert.Equal(t, 3, report.Kills[engine.TeamPlayer])
}

func TestStoreRejectsUnknownEvents(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.jsonl")
	line := `{"battle":"` + uuid.NewString() + `","type":"Teleported","data":{}}` + "\n"
	require.NoError(t, os.WriteFile(logPath, []byte(line), 0644))

	store, err := NewStore(logPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	assert.ErrorContains(t, err, "unknown event type in log: Teleported")
}

func TestStoreAppendNothing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.jsonl")
	store, err := NewStore(logPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(uuid.New()))
	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
