package engine

import (
	"github.com/suderio/warband/internal/data"
	"go.uber.org/zap"
)

// startRound resets every occupied slot of both teams. It runs each time the
// acting team changes; team is the side about to act.
func (b *Battle) startRound(team Team) {
	b.round++
	b.spellUsed = false
	for t := range b.armies {
		for _, u := range b.armies[t] {
			if !u.Alive() {
				continue
			}
			u.Moves = u.Species.InitialMoves
			u.Waits = 0
			u.Retaliated = false
			u.Flying = u.Species.Has(data.AbilityFly) && !b.enemyAdjacent(u)
			u.OutOfControl = u.Team == TeamPlayer && u.HP*u.Count > b.world.Leadership
			if u.Species.Has(data.AbilityRegen) {
				u.Injury = 0
			}
		}
	}
	b.log.Debug("round started", zap.Int("round", b.round), zap.Stringer("team", team))
}

// advance ends the active unit's turn and hands control to the next unit.
func (b *Battle) advance() {
	if u := b.ActiveUnit(); u != nil {
		u.Moves = 0
	}
	b.selectNext()
}

// selectNext scans the active team from the slot after the active one,
// wrapping. Units with waits left are preferred; a unit that waited twice
// still gets its turn before the team is done.
func (b *Battle) selectNext() {
	team := b.active.Team
	for _, strict := range [2]bool{true, false} {
		for i := 1; i <= SlotCount; i++ {
			u := b.armies[team][(b.active.Slot+i)%SlotCount]
			if !u.Alive() || u.Moves <= 0 {
				continue
			}
			if strict && u.Waits >= maxWaits {
				continue
			}
			b.activate(u.Ref())
			return
		}
	}
	b.switchTeam()
}

func (b *Battle) switchTeam() {
	next := b.active.Team.Other()
	b.startRound(next)
	for _, u := range b.armies[next] {
		if u.Alive() {
			b.activate(u.Ref())
			return
		}
	}
	b.checkEnd()
}

// activate makes r the active unit. A frozen unit thaws; with no enemy in
// reach it also loses the turn.
func (b *Battle) activate(r Ref) {
	b.active = r
	b.mode = CursorMove
	u := b.Unit(r)
	b.emit(&TurnChangedEvent{Unit: r, Name: u.Name(), Round: b.round})
	if u.Frozen {
		u.Frozen = false
		if !b.enemyAdjacent(u) {
			b.status("%s are frozen", u.Name())
			b.schedule(Continuation{Kind: ContAdvance})
		}
	}
}

// checkEnd finishes the battle once a side has no live units. The player
// losing everything is checked first.
func (b *Battle) checkEnd() bool {
	if b.outcome != nil {
		return true
	}
	switch {
	case !b.teamAlive(TeamPlayer):
		b.finish(ResultDefeat)
	case !b.teamAlive(TeamEnemy):
		b.finish(ResultVictory)
	default:
		return false
	}
	return true
}

// clearDead empties every slot whose stack reached zero.
func (b *Battle) clearDead() {
	for t := range b.armies {
		for slot, u := range b.armies[t] {
			if u == nil || u.Count > 0 {
				continue
			}
			b.emit(&UnitDiedEvent{Unit: u.Ref(), Name: u.Name()})
			b.armies[t][slot] = nil
		}
	}
}

// enemyAdjacent reports whether a live unit of the other team touches u.
func (b *Battle) enemyAdjacent(u *Unit) bool {
	for _, v := range b.armies[u.Team.Other()] {
		if v.Alive() && v.Pos.Chebyshev(u.Pos) == 1 {
			return true
		}
	}
	return false
}

// hostile reports whether u may attack v. Out-of-control units turn on their
// own side.
func (b *Battle) hostile(u, v *Unit) bool {
	if !v.Alive() || u == v {
		return false
	}
	if u.OutOfControl {
		return v.Team == u.Team
	}
	return v.Team != u.Team
}

// hostiles lists the units u may attack, in slot order.
func (b *Battle) hostiles(u *Unit) []*Unit {
	team := u.Team.Other()
	if u.OutOfControl {
		team = u.Team
	}
	var out []*Unit
	for _, v := range b.armies[team] {
		if b.hostile(u, v) {
			out = append(out, v)
		}
	}
	return out
}

func (b *Battle) hostileAdjacent(u *Unit) bool {
	for _, v := range b.hostiles(u) {
		if v.Pos.Chebyshev(u.Pos) == 1 {
			return true
		}
	}
	return false
}
