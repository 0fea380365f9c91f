package data

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MoraleGroup is the species temperament class used to derive army morale.
type MoraleGroup int

const (
	MoraleGroupA MoraleGroup = iota
	MoraleGroupB
	MoraleGroupC
	MoraleGroupD
	MoraleGroupE
	MoraleGroupUnknown
)

var moraleGroupMap = map[string]MoraleGroup{
	"a": MoraleGroupA,
	"b": MoraleGroupB,
	"c": MoraleGroupC,
	"d": MoraleGroupD,
	"e": MoraleGroupE,
}

// ParseMoraleGroup converts a letter into a comparable MoraleGroup value.
func ParseMoraleGroup(s string) MoraleGroup {
	if val, ok := moraleGroupMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return val
	}
	return MoraleGroupUnknown
}

func (g MoraleGroup) String() string {
	if g < MoraleGroupA || g >= MoraleGroupUnknown {
		return "?"
	}
	return string(rune('A' + int(g)))
}

func (g *MoraleGroup) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed := ParseMoraleGroup(s)
	if parsed == MoraleGroupUnknown {
		return fmt.Errorf("unknown morale group %q", s)
	}
	*g = parsed
	return nil
}

func (g MoraleGroup) MarshalYAML() (any, error) {
	return g.String(), nil
}

// Morale scales the damage of a player stack.
type Morale int

const (
	MoraleNormal Morale = iota
	MoraleLow
	MoraleHigh
)

func (m Morale) String() string {
	switch m {
	case MoraleLow:
		return "low"
	case MoraleHigh:
		return "high"
	}
	return "normal"
}

// ParseMorale accepts "low", "normal" and "high".
func ParseMorale(s string) (Morale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return MoraleNormal, nil
	case "low":
		return MoraleLow, nil
	case "high":
		return MoraleHigh, nil
	}
	return MoraleNormal, fmt.Errorf("unknown morale %q", s)
}

// clashes[g] lists the groups that lower the morale of a group-g stack.
var clashes = map[MoraleGroup][]MoraleGroup{
	MoraleGroupA: nil,
	MoraleGroupB: {MoraleGroupE},
	MoraleGroupC: {MoraleGroupD, MoraleGroupE},
	MoraleGroupD: {MoraleGroupC, MoraleGroupE},
	MoraleGroupE: {MoraleGroupB, MoraleGroupC, MoraleGroupD},
}

// ArmyMorale derives the morale of every stack from the groups travelling with it.
// A stack is low if any companion clashes with its group, high if every companion
// shares its group, normal otherwise. Empty slots are MoraleGroupUnknown.
func ArmyMorale(groups [5]MoraleGroup) [5]Morale {
	var out [5]Morale
	for i, g := range groups {
		if g == MoraleGroupUnknown {
			continue
		}
		same, companions, low := true, 0, false
		for j, other := range groups {
			if j == i || other == MoraleGroupUnknown {
				continue
			}
			companions++
			if other != g {
				same = false
			}
			for _, c := range clashes[g] {
				if other == c {
					low = true
				}
			}
		}
		switch {
		case low:
			out[i] = MoraleLow
		case same && companions > 0:
			out[i] = MoraleHigh
		default:
			out[i] = MoraleNormal
		}
	}
	return out
}
