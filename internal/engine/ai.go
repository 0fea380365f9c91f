package engine

import (
	"go.uber.org/zap"
)

// maxFlyAttempts bounds the number of targets a flying unit tries to land next to.
const maxFlyAttempts = 5

// runAI takes one decision for the active unit. Every branch ends by
// scheduling a continuation, so the next decision waits for the next tick.
func (b *Battle) runAI() {
	u := b.ActiveUnit()
	if u == nil {
		b.advance()
		return
	}
	log := b.log.With(zap.Stringer("unit", u.Ref()), zap.String("name", u.Name()))
	candidates := b.hostiles(u)

	if u.Flying {
		if t, to, ok := b.flyingLanding(candidates); ok {
			log.Debug("ai lands", zap.Stringer("target", t.Ref()), zap.Stringer("to", to))
			b.aiDo(u, b.move(u, to))
			return
		}
	}

	if u.Ammo > 0 && !b.hostileAdjacent(u) {
		if t := findBestTarget(candidates); t != nil {
			log.Debug("ai shoots", zap.Stringer("target", t.Ref()))
			b.aiDo(u, b.shoot(u, t))
			return
		}
	}

	if t := b.weakestAdjacent(u); t != nil {
		log.Debug("ai attacks", zap.Stringer("target", t.Ref()))
		b.aiDo(u, b.melee(u, t))
		return
	}

	if t := findBestTarget(candidates); t != nil {
		if to, ok := stepToward(u.Pos, t.Pos, b.obstructed); ok {
			log.Debug("ai steps", zap.Stringer("target", t.Ref()), zap.Stringer("to", to))
			b.aiDo(u, b.move(u, to))
			return
		}
	}

	log.Debug("ai is boxed in", zap.Int("waits", u.Waits))
	if u.Waits < maxWaits {
		b.aiDo(u, b.wait(u))
		return
	}
	b.aiDo(u, b.pass(u))
}

// aiDo falls back to passing when a chosen action was refused, so the AI can
// never stall the battle.
func (b *Battle) aiDo(u *Unit, err error) {
	if err == nil {
		return
	}
	b.log.Warn("ai action rejected", zap.Stringer("unit", u.Ref()), zap.Error(err))
	if b.pending == nil && b.outcome == nil {
		_ = b.pass(u)
	}
}

// flyingLanding picks a target and a free tile next to it, trying up to
// maxFlyAttempts distinct targets.
func (b *Battle) flyingLanding(candidates []*Unit) (*Unit, Pos, bool) {
	tried := make(map[*Unit]bool, maxFlyAttempts)
	for range maxFlyAttempts {
		var left []*Unit
		for _, c := range candidates {
			if !tried[c] {
				left = append(left, c)
			}
		}
		t := findBestTarget(left)
		if t == nil {
			break
		}
		tried[t] = true
		if to, ok := freeNeighbour(t.Pos, b.obstructed); ok {
			return t, to, true
		}
	}
	return nil, NoPos, false
}

// weakestAdjacent returns the touching hostile with the lowest per-individual
// hp, scanning the 3x3 neighbourhood row-major.
func (b *Battle) weakestAdjacent(u *Unit) *Unit {
	var best *Unit
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			v := b.UnitAt(Pos{X: u.Pos.X + dx, Y: u.Pos.Y + dy})
			if v == nil || !b.hostile(u, v) {
				continue
			}
			if best == nil || v.HP < best.HP {
				best = v
			}
		}
	}
	return best
}

// obstructed reports whether a unit cannot step onto p.
func (b *Battle) obstructed(p Pos) bool {
	return b.terrain.Blocked(p) || b.UnitAt(p) != nil
}

// findBestTarget prefers the first unit that can still shoot, else the one
// with the lowest per-individual hp. Ties go to the earlier candidate.
func findBestTarget(candidates []*Unit) *Unit {
	for _, c := range candidates {
		if c.Alive() && c.Ammo > 0 {
			return c
		}
	}
	var best *Unit
	for _, c := range candidates {
		if !c.Alive() {
			continue
		}
		if best == nil || c.HP < best.HP {
			best = c
		}
	}
	return best
}

// stepToward picks the free neighbour of origin closest to target by
// Manhattan distance. Neighbours are scanned row-major; ties go to the first.
func stepToward(origin, target Pos, blocked func(Pos) bool) (Pos, bool) {
	best, bestDist := NoPos, -1
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			p := Pos{X: origin.X + dx, Y: origin.Y + dy}
			if !p.InBounds() || blocked(p) {
				continue
			}
			if d := p.Manhattan(target); bestDist < 0 || d < bestDist {
				best, bestDist = p, d
			}
		}
	}
	return best, bestDist >= 0
}

// freeNeighbour returns the first free tile around target in row-major order.
func freeNeighbour(target Pos, blocked func(Pos) bool) (Pos, bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := Pos{X: target.X + dx, Y: target.Y + dy}
			if p == target || !p.InBounds() || blocked(p) {
				continue
			}
			return p, true
		}
	}
	return NoPos, false
}
