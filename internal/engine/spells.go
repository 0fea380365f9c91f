package engine

import (
	"github.com/suderio/warband/internal/data"
	"go.uber.org/zap"
)

// Spell amounts per point of spell power.
const (
	clonePerPower      = 10
	resurrectPerPower  = 20
	fireballPerPower   = 25
	lightningPerPower  = 10
	turnUndeadPerPower = 50
)

// prepareSpell runs the checks made when the spell menu is opened.
func (b *Battle) prepareSpell(id SpellID) error {
	if b.active.Team != TeamPlayer {
		return b.reject(ErrActionNotAllowed, "Spells can only be cast on your turn")
	}
	if b.spellUsed {
		return b.reject(ErrActionNotAllowed, "You may only cast one spell per round")
	}
	if b.world.Spells[id] <= 0 {
		return b.reject(ErrActionNotAllowed, "You have no %s spells", id)
	}
	return nil
}

// confirmSpell spends the charge once a target has been accepted. Immune
// targets are refused after the charge is gone.
func (b *Battle) confirmSpell(id SpellID, target *Unit) error {
	b.world.Spells[id]--
	b.spellUsed = true
	b.emit(&SpellCastEvent{Spell: id, Target: target.Ref(), Name: target.Name()})
	b.log.Debug("spell cast",
		zap.Stringer("spell", id),
		zap.Stringer("target", target.Ref()),
		zap.Int("charges_left", b.world.Spells[id]))
	if target.Species.Has(data.AbilityImmune) {
		return b.reject(ErrImmuneTarget, "%s are immune to magic", target.Name())
	}
	return nil
}

// spellTarget picks the live unit at p on the wanted side.
func (b *Battle) spellTarget(p Pos, side Team) (*Unit, error) {
	u := b.UnitAt(p)
	if u == nil {
		return nil, b.reject(ErrInvalidTarget, "There is no troop there")
	}
	if u.Team != side {
		if side == TeamPlayer {
			return nil, b.reject(ErrInvalidTarget, "Select one of your own troops")
		}
		return nil, b.reject(ErrInvalidTarget, "Select an enemy troop")
	}
	return u, nil
}

func (b *Battle) castClone(at Pos) error {
	if err := b.prepareSpell(SpellIDClone); err != nil {
		return err
	}
	u, err := b.spellTarget(at, TeamPlayer)
	if err != nil {
		return err
	}
	if err := b.confirmSpell(SpellIDClone, u); err != nil {
		return err
	}
	n := clonePerPower * b.world.SpellPower
	u.Count += n
	b.status("%d %s are cloned", n, u.Name())
	b.schedule(Continuation{Kind: ContResume})
	return nil
}

func (b *Battle) castTeleport(at, to Pos) error {
	if err := b.prepareSpell(SpellIDTeleport); err != nil {
		return err
	}
	u := b.UnitAt(at)
	if u == nil {
		return b.reject(ErrInvalidTarget, "There is no troop there")
	}
	if !to.InBounds() || b.terrain.Blocked(to) || b.UnitAt(to) != nil {
		return b.reject(ErrInvalidTarget, "You can't teleport onto an occupied area")
	}
	if err := b.confirmSpell(SpellIDTeleport, u); err != nil {
		return err
	}
	from := u.Pos
	u.Pos = to
	b.emit(&UnitMovedEvent{Unit: u.Ref(), Name: u.Name(), From: from, To: to})
	b.status("%s are teleported", u.Name())
	b.schedule(Continuation{Kind: ContResume})
	return nil
}

func (b *Battle) castFreeze(at Pos) error {
	if err := b.prepareSpell(SpellIDFreeze); err != nil {
		return err
	}
	u, err := b.spellTarget(at, TeamEnemy)
	if err != nil {
		return err
	}
	if err := b.confirmSpell(SpellIDFreeze, u); err != nil {
		return err
	}
	u.Frozen = true
	b.status("%s are frozen", u.Name())
	b.schedule(Continuation{Kind: ContResume})
	return nil
}

func (b *Battle) castResurrect(at Pos) error {
	if err := b.prepareSpell(SpellIDResurrect); err != nil {
		return err
	}
	u, err := b.spellTarget(at, TeamPlayer)
	if err != nil {
		return err
	}
	if err := b.confirmSpell(SpellIDResurrect, u); err != nil {
		return err
	}
	n := min(resurrectPerPower*b.world.SpellPower, u.StartCount-u.Count)
	n = max(n, 0)
	u.Count += n
	b.world.FollowersKilled = max(b.world.FollowersKilled-n, 0)
	b.status("%d %s are resurrected", n, u.Name())
	b.schedule(Continuation{Kind: ContResume})
	return nil
}

// castDirect handles the damage spells. They go through the damage model
// with a fixed amount and never end the caster's turn.
func (b *Battle) castDirect(id SpellID, at Pos) error {
	if err := b.prepareSpell(id); err != nil {
		return err
	}
	u, err := b.spellTarget(at, TeamEnemy)
	if err != nil {
		return err
	}
	if err := b.confirmSpell(id, u); err != nil {
		return err
	}

	power := b.world.SpellPower
	var amount int
	switch id {
	case SpellIDFireball:
		amount = fireballPerPower * power
	case SpellIDLightning:
		amount = lightningPerPower * power
	case SpellIDTurnUndead:
		if !u.Species.Has(data.AbilityUndead) {
			b.status("%s has no effect on %s", id, u.Name())
			b.schedule(Continuation{Kind: ContResume})
			return nil
		}
		amount = turnUndeadPerPower * power
	}

	u.TurnCount = u.Count
	b.strike(nil, u, AttackSpell, amount, false)
	b.schedule(Continuation{Kind: ContClearDead})
	return nil
}
