package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/suderio/warband/internal/engine"
)

// EventWrapper facilitates serialization of polyphormic events
type EventWrapper struct {
	Battle uuid.UUID        `json:"battle"`
	Type   engine.EventType `json:"type"`
	Event  json.RawMessage  `json:"data"`
}

// Record is one decoded line of the log.
type Record struct {
	Battle uuid.UUID
	Event  engine.Event
}

// Store handles append-only storing of event log.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &Store{file: file}, nil
}

// Append marshals the events of one battle to the jsonl log and syncs once.
func (s *Store) Append(battle uuid.UUID, events ...engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	var buf []byte
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", evt.Type(), err)
		}

		wrapperData, err := json.Marshal(EventWrapper{
			Battle: battle,
			Type:   evt.Type(),
			Event:  data,
		})
		if err != nil {
			return err
		}
		buf = append(buf, wrapperData...)
		buf = append(buf, '\n')
	}

	if _, err := s.file.Write(buf); err != nil {
		return err
	}
	return s.file.Sync()
}

// Load replays all jsonl strings and unpacks them to records.
func (s *Store) Load() ([]Record, error) {
	var records []Record

	// Reset file pointer to beginning
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(s.file)
	line := 0
	for scanner.Scan() {
		line++
		var wrapper EventWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapper on line %d: %w", line, err)
		}

		evt, err := newEvent(wrapper.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := json.Unmarshal(wrapper.Event, evt); err != nil {
			return nil, fmt.Errorf("failed to parse event data into specific type: %w", err)
		}

		records = append(records, Record{Battle: wrapper.Battle, Event: evt})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// LoadBattle returns the events recorded for one battle, in order.
func (s *Store) LoadBattle(battle uuid.UUID) ([]engine.Event, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	var events []engine.Event
	for _, r := range records {
		if r.Battle == battle {
			events = append(events, r.Event)
		}
	}
	return events, nil
}

// Battles lists the battle ids in the log in order of first appearance.
func Battles(records []Record) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, r := range records {
		if !seen[r.Battle] {
			seen[r.Battle] = true
			ids = append(ids, r.Battle)
		}
	}
	return ids
}

func newEvent(t engine.EventType) (engine.Event, error) {
	switch t {
	case engine.EventStatus:
		return &engine.StatusEvent{}, nil
	case engine.EventTurnChanged:
		return &engine.TurnChangedEvent{}, nil
	case engine.EventUnitMoved:
		return &engine.UnitMovedEvent{}, nil
	case engine.EventAttackResolved:
		return &engine.AttackResolvedEvent{}, nil
	case engine.EventHitShown:
		return &engine.HitShownEvent{}, nil
	case engine.EventHitHidden:
		return &engine.HitHiddenEvent{}, nil
	case engine.EventUnitDied:
		return &engine.UnitDiedEvent{}, nil
	case engine.EventSpellCast:
		return &engine.SpellCastEvent{}, nil
	case engine.EventModeChanged:
		return &engine.ModeChangedEvent{}, nil
	case engine.EventBattleEnded:
		return &engine.BattleEndedEvent{}, nil
	}
	return nil, fmt.Errorf("unknown event type in log: %s", t)
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
