// Package engine implements the tactical battle engine: two 5-slot armies
// fighting on a 6x5 grid, a turn scheduler, an action resolver, the damage
// model, combat spells, the AI controller and the presentation-delay
// continuation that sequences cause and consequence.
package engine

import (
	"fmt"
	"strings"

	"github.com/suderio/warband/internal/data"
)

const (
	GridWidth  = 6
	GridHeight = 5
	SlotCount  = 5

	maxWaits = 2
)

// Team identifies a side. The player is always team 0.
type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

// Other returns the opposing side.
func (t Team) Other() Team {
	return 1 - t
}

func (t Team) String() string {
	if t == TeamPlayer {
		return "player"
	}
	return "enemy"
}

// Pos is a tile on the battle grid.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoPos marks a unit removed from the grid.
var NoPos = Pos{X: -1, Y: -1}

// InBounds reports whether p lies on the 6x5 grid.
func (p Pos) InBounds() bool {
	return p.X >= 0 && p.X < GridWidth && p.Y >= 0 && p.Y < GridHeight
}

// Chebyshev distance; 1 means the tiles touch, diagonals included.
func (p Pos) Chebyshev(q Pos) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// Manhattan distance, used by the AI to rank steps.
func (p Pos) Manhattan(q Pos) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Ref addresses one army slot.
type Ref struct {
	Team Team `json:"team"`
	Slot int  `json:"slot"`
}

// Valid reports whether the slot index is addressable.
func (r Ref) Valid() bool {
	return (r.Team == TeamPlayer || r.Team == TeamEnemy) && r.Slot >= 0 && r.Slot < SlotCount
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Team, r.Slot)
}

// Kind distinguishes a field encounter from a castle siege.
type Kind int

const (
	KindEncounter Kind = iota
	KindSiege
)

func (k Kind) String() string {
	if k == KindSiege {
		return "siege"
	}
	return "encounter"
}

// Terrain holds the externally generated obstacle layout, indexed [y][x].
type Terrain [GridHeight][GridWidth]bool

// Blocked reports whether p is an obstacle. Off-grid tiles count as blocked.
func (t *Terrain) Blocked(p Pos) bool {
	if !p.InBounds() {
		return true
	}
	return t[p.Y][p.X]
}

// ParseTerrain reads GridHeight rows of GridWidth characters; '#' is an obstacle, '.' is open ground.
func ParseTerrain(rows []string) (Terrain, error) {
	var t Terrain
	if len(rows) == 0 {
		return t, nil
	}
	if len(rows) != GridHeight {
		return t, fmt.Errorf("terrain must have %d rows, got %d", GridHeight, len(rows))
	}
	for y, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != GridWidth {
			return t, fmt.Errorf("terrain row %d must have %d tiles, got %q", y, GridWidth, row)
		}
		for x, c := range row {
			switch c {
			case '#':
				t[y][x] = true
			case '.':
			default:
				return t, fmt.Errorf("terrain row %d: unknown tile %q", y, c)
			}
		}
	}
	return t, nil
}

// Artifact indexes Overworld.Artifacts.
type Artifact int

const (
	ArtifactNobility Artifact = iota
	ArtifactAugmentation
	ArtifactAdmirality
	ArtifactNecros
	ArtifactCommand
	ArtifactHeroism
	ArtifactShield // Shield of Protection
	ArtifactSword  // Sword of Prowess
	artifactCount
)

var artifactNames = [artifactCount]string{
	"Crown of Nobility", "Ring of Augmentation", "Anchor of Admirality", "Amulet of Necros",
	"Articles of Command", "Book of Heroism", "Shield of Protection", "Sword of Prowess",
}

func (a Artifact) String() string {
	if a < 0 || a >= artifactCount {
		return fmt.Sprintf("artifact(%d)", int(a))
	}
	return artifactNames[a]
}

// ParseArtifact accepts the full name or its first word, case-insensitively.
func ParseArtifact(s string) (Artifact, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range artifactNames {
		name = strings.ToLower(name)
		if s == name || s == strings.Fields(name)[0] {
			return Artifact(i), nil
		}
	}
	return 0, fmt.Errorf("unknown artifact %q", s)
}

// SpellID indexes Overworld.Spells. Only the first seven are cast in battle.
type SpellID int

const (
	SpellIDClone SpellID = iota
	SpellIDTeleport
	SpellIDFireball
	SpellIDLightning
	SpellIDFreeze
	SpellIDResurrect
	SpellIDTurnUndead
	SpellIDBridge
	SpellIDTimeStop
	SpellIDFindVillain
	SpellIDCastleGate
	SpellIDTownGate
	SpellIDInstantArmy
	SpellIDRaiseControl
	spellCount
)

var spellNames = [spellCount]string{
	"Clone", "Teleport", "Fireball", "Lightning", "Freeze", "Resurrect", "Turn Undead",
	"Bridge", "Time Stop", "Find Villain", "Castle Gate", "Town Gate", "Instant Army", "Raise Control",
}

func (s SpellID) String() string {
	if s < 0 || s >= spellCount {
		return fmt.Sprintf("spell(%d)", int(s))
	}
	return spellNames[s]
}

// ParseSpellID matches a spell name case-insensitively, ignoring spaces and underscores.
func ParseSpellID(s string) (SpellID, error) {
	key := normalizeSpell(s)
	for i, name := range spellNames {
		if key == normalizeSpell(name) {
			return SpellID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown spell %q", s)
}

func normalizeSpell(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
}

// Combat reports whether the spell can be cast during a battle.
func (s SpellID) Combat() bool {
	return s >= SpellIDClone && s <= SpellIDTurnUndead
}

// Overworld carries the hero fields the engine reads and writes. It is owned by
// the caller and passed by pointer into StartBattle.
type Overworld struct {
	Leadership      int
	SpellPower      int
	Spells          [spellCount]int
	Artifacts       [artifactCount]bool
	ArmyMorales     [SlotCount]data.Morale
	Difficulty      int
	FollowersKilled int
}

// Stack is one army slot as handed over by the overworld.
type Stack struct {
	Species string `json:"species" yaml:"species"`
	Count   int    `json:"count" yaml:"count"`
}

// Unit is the runtime state of one occupied slot.
type Unit struct {
	Species *data.UnitTemplate
	Team    Team
	Slot    int

	StartCount int
	TurnCount  int // stack size at the start of the current exchange
	Count      int
	HP         int
	Injury     int // damage carried into the next kill computation, always < HP
	Ammo       int
	Pos        Pos

	Moves        int
	Waits        int
	Flying       bool
	Frozen       bool
	Retaliated   bool
	OutOfControl bool
}

// Ref returns the slot address of u.
func (u *Unit) Ref() Ref {
	return Ref{Team: u.Team, Slot: u.Slot}
}

// Name is the species display name.
func (u *Unit) Name() string {
	return u.Species.Name
}

// Alive reports whether u still occupies the grid. Dead stacks linger in their
// slot until the next sweep but are invisible to every system.
func (u *Unit) Alive() bool {
	return u != nil && u.Count > 0
}
