package engine

import (
	"github.com/suderio/warband/internal/data"
	"go.uber.org/zap"
)

// AttackMode selects the base damage source of a strike.
type AttackMode int

const (
	AttackMelee AttackMode = iota
	AttackRanged
	AttackSpell // fixed external amount, no scaling, no leech
)

func (m AttackMode) String() string {
	switch m {
	case AttackRanged:
		return "ranged"
	case AttackSpell:
		return "spell"
	}
	return "melee"
}

func (m AttackMode) verb() string {
	switch m {
	case AttackRanged:
		return "shoot"
	case AttackSpell:
		return "blast"
	}
	return "attack"
}

// Strike is the full input of one damage computation. Units are copies; the
// computation never writes through them.
type Strike struct {
	Mode     AttackMode
	Attacker Unit // zero value (nil Species) for spells
	Defender Unit
	Fixed    int // damage for AttackSpell

	// Modifiers resolved by the caller from the overworld.
	Morale data.Morale // only meaningful for a player attacker in control
	Sword  bool        // player attacker carries the Sword of Prowess
	Shield bool        // player defender carries the Shield of Protection
}

// DamageResult is everything a strike changes, plus what it reports.
type DamageResult struct {
	Cancelled   bool
	Roll        int
	ScytheKills int
	Final       int // damage after modifiers and carry-in
	Damage      int // effective damage, capped on annihilation
	Kills       int // raw, may exceed the stack
	Reported    int // min(Kills, defender turn count)
	Annihilated bool
	Gained      int

	DefenderCount  int
	DefenderInjury int
	AttackerCount  int
	AttackerInjury int
	AttackerAmmo   int
}

// ComputeDamage resolves a strike. Given the same Strike and the same roller
// sequence it always returns the same result.
func ComputeDamage(s Strike, r Roller) DamageResult {
	att, def := s.Attacker, s.Defender
	res := DamageResult{
		DefenderCount:  def.Count,
		DefenderInjury: def.Injury,
		AttackerCount:  att.Count,
		AttackerInjury: att.Injury,
		AttackerAmmo:   att.Ammo,
	}

	// ammo is spent even when the shot is cancelled
	if s.Mode == AttackRanged && res.AttackerAmmo > 0 {
		res.AttackerAmmo--
	}

	var dmg int
	switch s.Mode {
	case AttackMelee:
		dmg = r.Roll(att.Species.Melee.Min, att.Species.Melee.Max)
	case AttackRanged:
		if att.Species.Has(data.AbilityMagic) && att.Species.RangedFixed > 0 {
			if def.Species.Has(data.AbilityImmune) {
				res.Cancelled = true
				return res
			}
			dmg = att.Species.RangedFixed
		} else {
			dmg = r.Roll(att.Species.Ranged.Min, att.Species.Ranged.Max)
		}
	case AttackSpell:
		dmg = s.Fixed
	}
	res.Roll = dmg

	if s.Mode != AttackSpell && att.Species.Has(data.AbilityScythe) && r.Roll(1, 100) > 89 {
		res.ScytheKills = (def.Count + 1) / 2
	}

	final := dmg
	if s.Mode != AttackSpell {
		total := dmg * att.TurnCount
		skillDiff := att.Species.SkillLevel + 5 - def.Species.SkillLevel
		final = (total * skillDiff) / 10

		switch s.Morale {
		case data.MoraleHigh:
			final = final * 3 / 2
		case data.MoraleLow:
			final = final / 2
		}
		if s.Sword {
			final = final * 3 / 2
		}
	}
	if s.Shield {
		final = (final / 4) * 3
	}
	if final < 0 {
		final = 0
	}

	final += def.Injury + def.HP*res.ScytheKills
	res.Final = final

	turnCount := def.TurnCount
	if turnCount == 0 {
		turnCount = def.Count
	}

	res.Kills = final / def.HP
	if res.Kills < def.Count {
		res.DefenderCount = def.Count - res.Kills
		res.DefenderInjury = final % def.HP
		res.Damage = final
	} else {
		res.Annihilated = true
		res.DefenderCount = 0
		res.DefenderInjury = 0
		res.Damage = min(final, turnCount*def.HP)
	}
	res.Reported = min(res.Kills, turnCount)

	if s.Mode == AttackSpell {
		return res
	}
	switch {
	case att.Species.Has(data.AbilityAbsorb):
		res.AttackerCount += res.Reported
		res.Gained = res.Reported
	case att.Species.Has(data.AbilityLeech):
		count := res.AttackerCount + res.Reported
		if count > att.StartCount {
			count = att.StartCount
			res.AttackerInjury = 0
		}
		res.Gained = count - res.AttackerCount
		res.AttackerCount = count
	}
	return res
}

// strike runs the damage model for att against def and writes the result back.
// att is nil for spells. Turn counts must already be snapshotted.
func (b *Battle) strike(att, def *Unit, mode AttackMode, fixed int, retaliation bool) DamageResult {
	s := Strike{Mode: mode, Defender: *def, Fixed: fixed}
	if def.Team == TeamPlayer {
		s.Shield = b.world.Artifacts[ArtifactShield]
	}
	if att != nil {
		s.Attacker = *att
		if att.Team == TeamPlayer {
			s.Sword = b.world.Artifacts[ArtifactSword]
			if !att.OutOfControl {
				s.Morale = b.world.ArmyMorales[att.Slot]
			}
		}
	}

	res := ComputeDamage(s, b.roller)

	def.Count = res.DefenderCount
	def.Injury = res.DefenderInjury
	at := def.Pos
	if res.Annihilated {
		def.Pos = NoPos
	}
	if att != nil {
		att.Count = res.AttackerCount
		att.Injury = res.AttackerInjury
		att.Ammo = res.AttackerAmmo
	}
	if def.Team == TeamEnemy {
		b.world.FollowersKilled += res.Reported
	}

	evt := &AttackResolvedEvent{
		Defender:     def.Ref(),
		DefenderName: def.Name(),
		Mode:         mode,
		Damage:       res.Damage,
		Kills:        res.Reported,
		Cancelled:    res.Cancelled,
		Retaliation:  retaliation,
	}
	if att != nil {
		ref := att.Ref()
		evt.Attacker = &ref
		evt.AttackerName = att.Name()
	}
	b.emit(evt)
	b.emit(&StatusEvent{Text: evt.Message()})
	if !res.Cancelled {
		b.emit(&HitShownEvent{Target: def.Ref(), At: at})
		b.hit = def.Ref()
		b.hitShown = true
	}

	b.log.Debug("strike resolved",
		zap.Stringer("mode", mode),
		zap.Stringer("defender", def.Ref()),
		zap.Int("final", res.Final),
		zap.Int("kills", res.Kills),
		zap.Int("reported", res.Reported),
		zap.Bool("annihilated", res.Annihilated),
	)
	return res
}
