package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// perform is the single entry point for executing an intent, shared by Submit
// and the AI. Validation always runs before any unit is touched.
func (b *Battle) perform(a Action) error {
	switch act := a.(type) {
	case Retreat:
		return b.retreat()
	case Retaliate:
		return b.reject(ErrActionNotAllowed, "Retaliation cannot be ordered")
	case SpellClone:
		return b.castClone(act.At)
	case SpellTeleport:
		return b.castTeleport(act.At, act.To)
	case SpellFreeze:
		return b.castFreeze(act.At)
	case SpellResurrect:
		return b.castResurrect(act.At)
	case SpellFireball:
		return b.castDirect(SpellIDFireball, act.At)
	case SpellLightning:
		return b.castDirect(SpellIDLightning, act.At)
	case SpellTurnUndead:
		return b.castDirect(SpellIDTurnUndead, act.At)
	}

	from, err := actionSource(a)
	if err != nil {
		return err
	}
	u, err := b.actor(from)
	if err != nil {
		return err
	}

	switch act := a.(type) {
	case TryMove:
		return b.tryMove(u, act.To)
	case Move:
		return b.move(u, act.To)
	case MeleeAttack:
		return b.melee(u, b.UnitAt(act.To))
	case ShootAttack:
		return b.shoot(u, b.Unit(act.Target))
	case TryShoot:
		return b.shoot(u, b.UnitAt(act.To))
	case Wait:
		return b.wait(u)
	case Pass:
		return b.pass(u)
	}
	return fmt.Errorf("unsupported action %T", a)
}

func actionSource(a Action) (Ref, error) {
	switch act := a.(type) {
	case TryMove:
		return act.From, nil
	case Move:
		return act.From, nil
	case MeleeAttack:
		return act.From, nil
	case ShootAttack:
		return act.From, nil
	case TryShoot:
		return act.From, nil
	case Wait:
		return act.From, nil
	case Pass:
		return act.From, nil
	}
	return Ref{}, fmt.Errorf("unsupported action %T", a)
}

// actor resolves the acting unit, which must be the active one.
func (b *Battle) actor(from Ref) (*Unit, error) {
	if from != b.active {
		return nil, b.reject(ErrActionNotAllowed, "It is not that unit's turn")
	}
	u := b.ActiveUnit()
	if u == nil {
		return nil, b.reject(ErrInvalidTarget, "No unit there")
	}
	return u, nil
}

// tryMove turns a click on a tile into the matching action.
func (b *Battle) tryMove(u *Unit, to Pos) error {
	if !to.InBounds() {
		return b.reject(ErrInvalidTarget, "That is off the battlefield")
	}
	if b.terrain.Blocked(to) {
		return b.reject(ErrInvalidTarget, "You can't move/land on occupied area")
	}
	occ := b.UnitAt(to)
	switch {
	case occ == nil:
		return b.move(u, to)
	case occ == u:
		if u.Ammo > 0 && !b.enemyAdjacent(u) {
			b.mode = CursorShoot
			b.emit(&ModeChangedEvent{Mode: CursorShoot})
			return nil
		}
		return b.wait(u)
	case occ.Team != u.Team:
		return b.melee(u, occ)
	}
	return b.reject(ErrInvalidTarget, "You can't move to an occupied area")
}

// move walks u one tile, or lands it anywhere if it is still flying. Landing
// costs no move.
func (b *Battle) move(u *Unit, to Pos) error {
	if !to.InBounds() || b.terrain.Blocked(to) || b.UnitAt(to) != nil {
		return b.reject(ErrInvalidTarget, "You can't move/land on occupied area")
	}
	if !u.Flying && u.Pos.Chebyshev(to) != 1 {
		return b.reject(ErrInvalidTarget, "%s can only move one tile at a time", u.Name())
	}

	from := u.Pos
	if u.Flying {
		u.Flying = false
	} else {
		u.Moves--
	}
	u.Pos = to
	b.mode = CursorMove
	b.emit(&UnitMovedEvent{Unit: u.Ref(), Name: u.Name(), From: from, To: to})

	if u.Moves <= 0 {
		b.schedule(Continuation{Kind: ContAdvance})
	} else {
		b.schedule(Continuation{Kind: ContResume})
	}
	return nil
}

// melee opens an exchange. The attacker's turn ends here; the defender may
// answer once per round.
func (b *Battle) melee(u, def *Unit) error {
	if def == nil || !b.hostile(u, def) {
		return b.reject(ErrInvalidTarget, "Select an enemy to attack")
	}
	if u.Pos.Chebyshev(def.Pos) != 1 {
		return b.reject(ErrInvalidTarget, "%s are too far away", def.Name())
	}

	u.Moves = 0
	u.TurnCount = u.Count
	def.TurnCount = def.Count
	b.mode = CursorMove
	b.strike(u, def, AttackMelee, 0, false)

	if def.Alive() && !def.Retaliated {
		b.schedule(Continuation{Kind: ContRetaliate, Attacker: u.Ref(), Defender: def.Ref()})
	} else {
		b.schedule(Continuation{Kind: ContClearDeadThenAdvance})
	}
	return nil
}

// retaliate lets the defender of an exchange strike back with the stack size
// it had when the exchange began.
func (b *Battle) retaliate(attacker, defender Ref) {
	att, def := b.Unit(attacker), b.Unit(defender)
	if att.Alive() && def.Alive() && !def.Retaliated {
		def.Retaliated = true
		b.strike(def, att, AttackMelee, 0, true)
	}
	b.schedule(Continuation{Kind: ContClearDeadThenAdvance})
}

// shoot fires at target. Ammo is spent even when the shot is cancelled.
func (b *Battle) shoot(u, target *Unit) error {
	if u.Ammo <= 0 {
		return b.reject(ErrActionNotAllowed, "%s have no ammunition left", u.Name())
	}
	if b.hostileAdjacent(u) {
		return b.reject(ErrActionNotAllowed, "%s can't shoot while engaged", u.Name())
	}
	if target == nil || !b.hostile(u, target) {
		return b.reject(ErrInvalidTarget, "Select an enemy to shoot")
	}

	u.Moves = 0
	u.TurnCount = u.Count
	target.TurnCount = target.Count
	b.mode = CursorMove
	b.strike(u, target, AttackRanged, 0, false)
	b.schedule(Continuation{Kind: ContClearDeadThenAdvance})
	return nil
}

func (b *Battle) wait(u *Unit) error {
	if u.Waits >= maxWaits {
		return b.reject(ErrActionNotAllowed, "%s can't wait any longer", u.Name())
	}
	u.Waits++
	b.mode = CursorMove
	b.status("%s wait", u.Name())
	b.schedule(Continuation{Kind: ContWaitAdvance})
	return nil
}

func (b *Battle) pass(u *Unit) error {
	u.Moves = 0
	b.mode = CursorMove
	b.status("%s pass", u.Name())
	b.schedule(Continuation{Kind: ContAdvance})
	return nil
}

// retreat abandons the field. The army does not come home.
func (b *Battle) retreat() error {
	b.log.Info("player retreated", zap.Int("round", b.round))
	b.finish(ResultDisgrace)
	return nil
}
