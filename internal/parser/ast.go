package parser

import (
	"fmt"
	"strings"

	"github.com/suderio/warband/internal/engine"
)

// Command represents one line typed during a battle
type Command struct {
	Move    *MoveCmd    `parser:"( @@"`
	Shoot   *ShootCmd   `parser:"| @@"`
	Cast    *CastCmd    `parser:"| @@"`
	Wait    *WaitCmd    `parser:"| @@"`
	Pass    *PassCmd    `parser:"| @@"`
	Retreat *RetreatCmd `parser:"| @@"`
	Help    *HelpCmd    `parser:"| @@ )"`
}

// PosExpr is a grid coordinate, column first: "3 2" or "3,2"
type PosExpr struct {
	X int `parser:"@Int \",\"?"`
	Y int `parser:"@Int"`
}

// Pos converts the coordinate for the engine.
func (p *PosExpr) Pos() engine.Pos {
	return engine.Pos{X: p.X, Y: p.Y}
}

// MoveCmd clicks a tile: walk, land, attack, or (on itself) shoot mode / wait
type MoveCmd struct {
	Keyword string   `parser:"@(\"move\"|\"go\"|\"attack\")"`
	To      *PosExpr `parser:"\"to\" \":\" @@"`
}

// ShootCmd fires at the stack on a tile
type ShootCmd struct {
	Keyword string   `parser:"@\"shoot\""`
	At      *PosExpr `parser:"\"at\" \":\" @@"`
}

// CastCmd casts a combat spell; teleport also takes a destination
type CastCmd struct {
	Keyword string   `parser:"@\"cast\""`
	Spell   []string `parser:"@Ident+"`
	At      *PosExpr `parser:"\"at\" \":\" @@"`
	To      *PosExpr `parser:"( \"to\" \":\" @@ )?"`
}

// SpellName is the spell words joined with single spaces, lower-cased.
func (c *CastCmd) SpellName() string {
	return strings.ToLower(strings.Join(c.Spell, " "))
}

// SpellID resolves the typed name to a combat spell.
func (c *CastCmd) SpellID() (engine.SpellID, error) {
	id, err := engine.ParseSpellID(c.SpellName())
	if err != nil {
		return 0, err
	}
	if !id.Combat() {
		return 0, fmt.Errorf("%s cannot be cast in battle", id)
	}
	return id, nil
}

// WaitCmd defers the active unit
type WaitCmd struct {
	Keyword string `parser:"@\"wait\""`
}

// PassCmd ends the active unit's turn
type PassCmd struct {
	Keyword string `parser:"@(\"pass\"|\"skip\")"`
}

// RetreatCmd abandons the battle
type RetreatCmd struct {
	Keyword string `parser:"@(\"retreat\"|\"flee\")"`
}

// HelpCmd lists the commands
type HelpCmd struct {
	Keyword string `parser:"@(\"help\"|\"?\")"`
}
