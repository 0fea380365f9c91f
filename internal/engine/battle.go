package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suderio/warband/internal/data"
	"go.uber.org/zap"
)

// StartParams is everything needed to construct a battle.
type StartParams struct {
	Player  [SlotCount]*Stack
	Enemy   [SlotCount]*Stack
	Kind    Kind
	World   *Overworld
	Terrain Terrain
	Catalog *data.Catalog

	// Optional collaborators. Zero values pick crypto dice, no delay, a no-op
	// logger and DefaultPayout.
	Roller  Roller
	Delay   time.Duration
	Logger  *zap.Logger
	Payout  PayoutFunc
	Villain string // reported as captured on a siege victory

	// AutoPlayer hands the player side to the AI as well, for headless runs.
	AutoPlayer bool
}

// Battle is one running fight. It is not safe for concurrent use; the host
// drives it from a single goroutine through Submit and Tick.
type Battle struct {
	ID uuid.UUID

	kind    Kind
	armies  [2][SlotCount]*Unit
	terrain Terrain
	world   *Overworld
	roller  Roller
	delay   time.Duration
	log     *zap.Logger
	payout  PayoutFunc
	villain string
	auto    bool

	enemyValue int

	active    Ref
	round     int
	mode      CursorMode
	spellUsed bool
	pending   *Continuation
	outcome   *Outcome

	hit      Ref
	hitShown bool

	events []Event
}

// StartBattle deploys both armies and activates the first player unit. Player
// stacks stand in column 0, enemy stacks in column 5, each on the row of its slot.
func StartBattle(p StartParams) (*Battle, error) {
	if p.Catalog == nil {
		return nil, fmt.Errorf("%w: no unit catalog", ErrInvalidBattle)
	}
	if p.World == nil {
		return nil, fmt.Errorf("%w: no overworld state", ErrInvalidBattle)
	}

	b := &Battle{
		ID:      uuid.New(),
		kind:    p.Kind,
		terrain: p.Terrain,
		world:   p.World,
		roller:  p.Roller,
		delay:   p.Delay,
		log:     p.Logger,
		payout:  p.Payout,
		villain: p.Villain,
		auto:    p.AutoPlayer,
	}
	if b.roller == nil {
		b.roller = CryptoRoller{}
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if b.payout == nil {
		b.payout = DefaultPayout
	}
	b.log = b.log.With(zap.String("battle", b.ID.String()))

	armies := [2][SlotCount]*Stack{p.Player, p.Enemy}
	for team, army := range armies {
		col := 0
		if Team(team) == TeamEnemy {
			col = GridWidth - 1
		}
		for slot, st := range army {
			if st == nil || st.Species == "" {
				continue
			}
			u, err := b.deploy(p.Catalog, Team(team), slot, st, Pos{X: col, Y: slot})
			if err != nil {
				return nil, err
			}
			if Team(team) == TeamEnemy {
				b.enemyValue += u.Species.WeeklyCost * u.StartCount
			}
			b.armies[team][slot] = u
		}
	}

	if !b.teamAlive(TeamPlayer) {
		return nil, fmt.Errorf("%w: player army is empty", ErrInvalidBattle)
	}

	b.log.Info("battle started",
		zap.Stringer("kind", b.kind),
		zap.Int("player_stacks", b.stackCount(TeamPlayer)),
		zap.Int("enemy_stacks", b.stackCount(TeamEnemy)))

	b.active = Ref{Team: TeamPlayer}
	if b.checkEnd() {
		return b, nil
	}
	b.startRound(TeamPlayer)
	for _, u := range b.armies[TeamPlayer] {
		if u.Alive() {
			b.activate(u.Ref())
			break
		}
	}
	return b, nil
}

func (b *Battle) deploy(cat *data.Catalog, team Team, slot int, st *Stack, at Pos) (*Unit, error) {
	tmpl, ok := cat.Get(st.Species)
	if !ok {
		return nil, fmt.Errorf("%w: unknown species %q in %s slot %d", ErrInvalidBattle, st.Species, team, slot)
	}
	if st.Count <= 0 {
		return nil, fmt.Errorf("%w: %s slot %d has count %d", ErrInvalidBattle, team, slot, st.Count)
	}
	if b.terrain.Blocked(at) {
		return nil, fmt.Errorf("%w: deploy tile %s is blocked", ErrInvalidBattle, at)
	}
	return &Unit{
		Species:    tmpl,
		Team:       team,
		Slot:       slot,
		StartCount: st.Count,
		TurnCount:  st.Count,
		Count:      st.Count,
		HP:         tmpl.HP,
		Ammo:       tmpl.InitialAmmo,
		Pos:        at,
	}, nil
}

// Submit validates and executes a player intent. Rejections wrap one of the
// Err* sentinels and leave the battle untouched apart from a status event.
func (b *Battle) Submit(a Action) error {
	if err := b.ready(); err != nil {
		return err
	}
	if b.aiControlled() {
		return b.reject(ErrActionNotAllowed, "It is not your turn")
	}
	return b.perform(a)
}

func (b *Battle) ready() error {
	if b.outcome != nil {
		return b.reject(ErrActionNotAllowed, "The battle is over")
	}
	if b.pending != nil {
		return b.reject(ErrActionNotAllowed, "Wait for the current action to finish")
	}
	return nil
}

// Tick advances the pending continuation by dt, lets the AI act once when it
// is in control, and drains the events produced since the previous call.
func (b *Battle) Tick(dt time.Duration) []Event {
	if b.pending != nil {
		b.pending.Remaining -= dt
		if b.pending.Remaining <= 0 {
			c := *b.pending
			b.pending = nil
			if b.hitShown {
				b.hitShown = false
				b.emit(&HitHiddenEvent{Target: b.hit})
			}
			b.log.Debug("continuation fired", zap.Stringer("kind", c.Kind))
			b.resume(c)
		}
	}
	if b.pending == nil && b.outcome == nil && b.aiControlled() {
		b.runAI()
	}
	return b.Drain()
}

// Drain returns and clears the buffered events.
func (b *Battle) Drain() []Event {
	out := b.events
	b.events = nil
	return out
}

// Outcome is nil until the battle is over.
func (b *Battle) Outcome() *Outcome {
	return b.outcome
}

// Phase reports the scheduler state.
func (b *Battle) Phase() Phase {
	switch {
	case b.outcome != nil:
		return PhaseOver
	case b.pending != nil:
		return PhaseAwaitingDelay
	case b.ActiveUnit() != nil:
		return PhaseSelecting
	}
	return PhaseIdle
}

// Pending returns a copy of the pending continuation, if any.
func (b *Battle) Pending() (Continuation, bool) {
	if b.pending == nil {
		return Continuation{}, false
	}
	return *b.pending, true
}

func (b *Battle) Kind() Kind           { return b.kind }
func (b *Battle) Round() int           { return b.round }
func (b *Battle) Mode() CursorMode     { return b.mode }
func (b *Battle) Active() Ref          { return b.active }
func (b *Battle) Terrain() Terrain     { return b.terrain }
func (b *Battle) World() *Overworld    { return b.world }
func (b *Battle) SpellUsed() bool      { return b.spellUsed }
func (b *Battle) Delay() time.Duration { return b.delay }

// Unit returns the unit in a slot, or nil. Callers must treat it as read-only.
func (b *Battle) Unit(r Ref) *Unit {
	if !r.Valid() {
		return nil
	}
	return b.armies[r.Team][r.Slot]
}

// Units lists the live units of a team in slot order.
func (b *Battle) Units(t Team) []*Unit {
	var out []*Unit
	for _, u := range b.armies[t] {
		if u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// UnitAt returns the live unit standing on p, or nil.
func (b *Battle) UnitAt(p Pos) *Unit {
	if !p.InBounds() {
		return nil
	}
	for t := range b.armies {
		for _, u := range b.armies[t] {
			if u.Alive() && u.Pos == p {
				return u
			}
		}
	}
	return nil
}

// ActiveUnit returns the unit whose turn it is, or nil once the battle is over.
func (b *Battle) ActiveUnit() *Unit {
	u := b.Unit(b.active)
	if !u.Alive() {
		return nil
	}
	return u
}

// IsPlayerTurn reports whether the host may submit an action now.
func (b *Battle) IsPlayerTurn() bool {
	return b.outcome == nil && b.pending == nil && !b.aiControlled()
}

func (b *Battle) aiControlled() bool {
	u := b.ActiveUnit()
	if u == nil {
		return false
	}
	return b.auto || u.Team == TeamEnemy || u.OutOfControl
}

func (b *Battle) emit(e Event) {
	b.events = append(b.events, e)
}

func (b *Battle) status(format string, args ...any) {
	b.emit(&StatusEvent{Text: fmt.Sprintf(format, args...)})
}

func (b *Battle) teamAlive(t Team) bool {
	return b.stackCount(t) > 0
}

func (b *Battle) stackCount(t Team) int {
	n := 0
	for _, u := range b.armies[t] {
		if u.Alive() {
			n++
		}
	}
	return n
}

// finish records the outcome. Payout errors fall back to DefaultPayout.
func (b *Battle) finish(r Result) {
	if b.outcome != nil {
		return
	}
	o := &Outcome{Result: r}
	if r == ResultVictory {
		spoils := Spoils{
			EnemyValue:      b.enemyValue,
			FollowersKilled: b.world.FollowersKilled,
			Siege:           b.kind == KindSiege,
			Difficulty:      b.world.Difficulty,
		}
		gold, err := b.payout(spoils)
		if err != nil {
			b.log.Warn("payout formula failed, using default", zap.Error(err))
			gold, _ = DefaultPayout(spoils)
		}
		o.Gold = gold
		if b.kind == KindSiege {
			o.CapturedVillain = b.villain
		}
	}
	if r != ResultDisgrace {
		for slot, u := range b.armies[TeamPlayer] {
			if u.Alive() {
				o.PlayerArmy[slot] = &Stack{Species: u.Species.ID, Count: u.Count}
			}
		}
	}
	o.FollowersKilled = b.world.FollowersKilled

	b.outcome = o
	b.pending = nil
	b.mode = CursorMove
	b.emit(&BattleEndedEvent{Result: r, Gold: o.Gold, Villain: o.CapturedVillain})
	b.log.Info("battle ended",
		zap.Stringer("result", r),
		zap.Int("gold", o.Gold),
		zap.Int("rounds", b.round),
		zap.Int("followers_killed", o.FollowersKilled))
}
