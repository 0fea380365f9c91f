package data

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ability is a bitset of special combat traits a species carries.
type Ability uint16

const (
	AbilityFly Ability = 1 << iota
	AbilityScythe
	AbilityLeech
	AbilityUndead
	AbilityAbsorb
	AbilityImmune
	AbilityRegen
	AbilityMagic
)

var abilityNames = []struct {
	bit  Ability
	name string
}{
	{AbilityFly, "fly"},
	{AbilityScythe, "scythe"},
	{AbilityLeech, "leech"},
	{AbilityUndead, "undead"},
	{AbilityAbsorb, "absorb"},
	{AbilityImmune, "immune"},
	{AbilityRegen, "regen"},
	{AbilityMagic, "magic"},
}

// Has reports whether every bit of other is set.
func (a Ability) Has(other Ability) bool {
	return a&other == other
}

// Names lists the set abilities in declaration order.
func (a Ability) Names() []string {
	var out []string
	for _, n := range abilityNames {
		if a.Has(n.bit) {
			out = append(out, n.name)
		}
	}
	return out
}

func (a Ability) String() string {
	return strings.Join(a.Names(), ",")
}

// ParseAbility maps a YAML ability name onto its bit.
func ParseAbility(s string) (Ability, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range abilityNames {
		if n.name == key {
			return n.bit, nil
		}
	}
	return 0, fmt.Errorf("unknown ability %q", s)
}

// UnmarshalYAML accepts a list of ability names (e.g. [fly, undead]).
func (a *Ability) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return fmt.Errorf("abilities must be a list of names: %w", err)
	}
	var out Ability
	for _, n := range names {
		bit, err := ParseAbility(n)
		if err != nil {
			return err
		}
		out |= bit
	}
	*a = out
	return nil
}

// MarshalYAML writes the bitset back as a list of names.
func (a Ability) MarshalYAML() (any, error) {
	return a.Names(), nil
}

// Range is an inclusive damage range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// IsZero reports whether the species has no attack of this kind.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

func (r Range) String() string {
	if r.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// UnitTemplate holds the immutable per-species combat stats.
type UnitTemplate struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	HP           int         `yaml:"hp"`
	SkillLevel   int         `yaml:"skill_level"`
	InitialMoves int         `yaml:"moves"`
	Melee        Range       `yaml:"melee"`
	Ranged       Range       `yaml:"ranged"`
	RangedFixed  int         `yaml:"ranged_fixed"` // magic shooters always deal this much per individual
	InitialAmmo  int         `yaml:"ammo"`
	Abilities    Ability     `yaml:"abilities"`
	MoraleGroup  MoraleGroup `yaml:"morale_group"`
	WeeklyCost   int         `yaml:"weekly_cost"`
}

// Has is shorthand for t.Abilities.Has(a).
func (t *UnitTemplate) Has(a Ability) bool {
	return t.Abilities.Has(a)
}

// CanShoot reports whether the species has any ranged attack at all.
func (t *UnitTemplate) CanShoot() bool {
	return t.InitialAmmo > 0
}

func (t *UnitTemplate) validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("unit entry missing 'id'")
	case t.Name == "":
		return fmt.Errorf("unit %s: missing 'name'", t.ID)
	case t.HP <= 0:
		return fmt.Errorf("unit %s: hp must be positive", t.ID)
	case t.InitialMoves <= 0:
		return fmt.Errorf("unit %s: moves must be positive", t.ID)
	case t.Melee.Min > t.Melee.Max || t.Melee.Min < 0:
		return fmt.Errorf("unit %s: invalid melee range %s", t.ID, t.Melee)
	case t.Ranged.Min > t.Ranged.Max || t.Ranged.Min < 0:
		return fmt.Errorf("unit %s: invalid ranged range %s", t.ID, t.Ranged)
	case t.InitialAmmo > 0 && t.Ranged.IsZero() && t.RangedFixed == 0:
		return fmt.Errorf("unit %s: has ammo but no ranged damage", t.ID)
	}
	return nil
}
