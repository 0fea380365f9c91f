package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/google/uuid"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/parser"
	"go.uber.org/zap"
)

// ErrStalled is returned by RunToEnd when the tick budget runs out first.
var ErrStalled = errors.New("battle did not finish")

// Store defines the dependency required by Session to persist events
type Store interface {
	Append(battle uuid.UUID, events ...engine.Event) error
}

// Session manages the cohesive loop of taking commands, submitting them,
// advancing the battle clock and persisting every event produced.
type Session struct {
	battle *engine.Battle
	store  Store
	parser *participle.Parser[parser.Command]
	log    *zap.Logger
}

// New wraps a started battle. store and log may be nil.
func New(b *engine.Battle, store Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		battle: b,
		store:  store,
		parser: parser.Build(),
		log:    log.With(zap.String("battle", b.ID.String())),
	}
}

// Battle returns the wrapped battle.
func (s *Session) Battle() *engine.Battle {
	return s.battle
}

// Execute takes a raw command string from a UI client, submits it to the
// battle and returns the events it produced. A rejected command still
// returns its status event alongside the error.
func (s *Session) Execute(input string) ([]engine.Event, error) {
	cmd, err := s.parser.ParseString("", input)
	if err != nil {
		return nil, parser.MapError(input, err)
	}

	// Help is a stateless query; we do not append it to the log
	if cmd.Help != nil {
		return []engine.Event{&engine.StatusEvent{Text: parser.Usage}}, nil
	}

	action, err := ToAction(cmd, s.battle.Active(), s.battle.Mode())
	if err != nil {
		return nil, err
	}

	submitErr := s.battle.Submit(action)
	events := s.battle.Drain()
	if err := s.record(events); err != nil {
		return events, err
	}
	if submitErr != nil {
		s.log.Debug("command rejected", zap.String("input", input), zap.Error(submitErr))
	}
	return events, submitErr
}

// Tick advances the battle clock and persists whatever happened.
func (s *Session) Tick(dt time.Duration) ([]engine.Event, error) {
	events := s.battle.Tick(dt)
	return events, s.record(events)
}

// RunToEnd ticks a battle the host does not drive until it ends, giving up
// after limit ticks.
func (s *Session) RunToEnd(limit int) (*engine.Outcome, error) {
	for i := 0; i < limit; i++ {
		if o := s.battle.Outcome(); o != nil {
			return o, nil
		}
		if s.battle.IsPlayerTurn() {
			return nil, fmt.Errorf("%w: waiting for player input", ErrStalled)
		}
		if _, err := s.Tick(s.battle.Delay()); err != nil {
			return nil, err
		}
	}
	if o := s.battle.Outcome(); o != nil {
		return o, nil
	}
	return nil, fmt.Errorf("%w after %d ticks", ErrStalled, limit)
}

func (s *Session) record(events []engine.Event) error {
	if s.store == nil || len(events) == 0 {
		return nil
	}
	if err := s.store.Append(s.battle.ID, events...); err != nil {
		return fmt.Errorf("failed to persist event log: %w", err)
	}
	return nil
}

// ToAction maps a parsed command onto an intent for the active unit. While
// the cursor is in shoot mode a tile click is a shot.
func ToAction(cmd *parser.Command, active engine.Ref, mode engine.CursorMode) (engine.Action, error) {
	switch {
	case cmd.Move != nil:
		if mode == engine.CursorShoot {
			return engine.TryShoot{From: active, To: cmd.Move.To.Pos()}, nil
		}
		return engine.TryMove{From: active, To: cmd.Move.To.Pos()}, nil
	case cmd.Shoot != nil:
		return engine.TryShoot{From: active, To: cmd.Shoot.At.Pos()}, nil
	case cmd.Wait != nil:
		return engine.Wait{From: active}, nil
	case cmd.Pass != nil:
		return engine.Pass{From: active}, nil
	case cmd.Retreat != nil:
		return engine.Retreat{}, nil
	case cmd.Cast != nil:
		return castAction(cmd.Cast)
	}
	return nil, fmt.Errorf("unsupported command pattern")
}

func castAction(c *parser.CastCmd) (engine.Action, error) {
	id, err := c.SpellID()
	if err != nil {
		return nil, err
	}
	at := c.At.Pos()
	if id != engine.SpellIDTeleport && c.To != nil {
		return nil, fmt.Errorf("%s takes a single target", id)
	}
	switch id {
	case engine.SpellIDClone:
		return engine.SpellClone{At: at}, nil
	case engine.SpellIDTeleport:
		if c.To == nil {
			return nil, fmt.Errorf("The command cast teleport must be: cast teleport at: X Y to: X Y")
		}
		return engine.SpellTeleport{At: at, To: c.To.Pos()}, nil
	case engine.SpellIDFreeze:
		return engine.SpellFreeze{At: at}, nil
	case engine.SpellIDResurrect:
		return engine.SpellResurrect{At: at}, nil
	case engine.SpellIDFireball:
		return engine.SpellFireball{At: at}, nil
	case engine.SpellIDLightning:
		return engine.SpellLightning{At: at}, nil
	case engine.SpellIDTurnUndead:
		return engine.SpellTurnUndead{At: at}, nil
	}
	return nil, fmt.Errorf("%s cannot be cast in battle", id)
}
