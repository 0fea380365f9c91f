package engine

// Action is a discrete player or AI intent. The set of variants is closed.
type Action interface {
	action()
}

// TryMove is a cursor click on To. It resolves into Move, MeleeAttack, shoot mode or Wait.
type TryMove struct {
	From Ref
	To   Pos
}

// Move walks one tile, or lands anywhere while flying.
type Move struct {
	From Ref
	To   Pos
}

// MeleeAttack strikes the adjacent enemy standing on To.
type MeleeAttack struct {
	From Ref
	To   Pos
}

// ShootAttack fires at Target.
type ShootAttack struct {
	From   Ref
	Target Ref
}

// TryShoot is a cursor click on To while in shoot mode.
type TryShoot struct {
	From Ref
	To   Pos
}

// Retaliate marks the counterblow of a melee exchange. The engine schedules it
// on its own and rejects it when a host submits one.
type Retaliate struct{}

// Wait defers the unit's turn. At most two per round.
type Wait struct {
	From Ref
}

// Pass ends the unit's turn.
type Pass struct {
	From Ref
}

// Retreat gives the battle up.
type Retreat struct{}

// SpellClone adds copies to the friendly stack at At.
type SpellClone struct{ At Pos }

// SpellTeleport moves the stack at At onto the empty tile To.
type SpellTeleport struct {
	At Pos
	To Pos
}

// SpellFreeze makes the enemy stack at At skip its next turn.
type SpellFreeze struct{ At Pos }

// SpellResurrect restores fallen members of the friendly stack at At.
type SpellResurrect struct{ At Pos }

// SpellFireball burns the enemy stack at At.
type SpellFireball struct{ At Pos }

// SpellLightning strikes the enemy stack at At.
type SpellLightning struct{ At Pos }

// SpellTurnUndead destroys undead in the enemy stack at At.
type SpellTurnUndead struct{ At Pos }

func (TryMove) action()         {}
func (Move) action()            {}
func (MeleeAttack) action()     {}
func (ShootAttack) action()     {}
func (TryShoot) action()        {}
func (Retaliate) action()       {}
func (Wait) action()            {}
func (Pass) action()            {}
func (Retreat) action()         {}
func (SpellClone) action()      {}
func (SpellTeleport) action()   {}
func (SpellFreeze) action()     {}
func (SpellResurrect) action()  {}
func (SpellFireball) action()   {}
func (SpellLightning) action()  {}
func (SpellTurnUndead) action() {}
