package engine

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventStatus         EventType = "Status"
	EventTurnChanged    EventType = "TurnChanged"
	EventUnitMoved      EventType = "UnitMoved"
	EventAttackResolved EventType = "AttackResolved"
	EventHitShown       EventType = "HitShown"
	EventHitHidden      EventType = "HitHidden"
	EventUnitDied       EventType = "UnitDied"
	EventSpellCast      EventType = "SpellCast"
	EventModeChanged    EventType = "ModeChanged"
	EventBattleEnded    EventType = "BattleEnded"
)

// Event is one observable consequence of a battle step, handed to the host
// by Tick. Apply folds the event into a Report.
type Event interface {
	Type() EventType
	Apply(r *Report)
	Message() string
}

// StatusEvent replaces the one-line status text.
type StatusEvent struct {
	Text string `json:"text"`
}

func (e *StatusEvent) Type() EventType { return EventStatus }
func (e *StatusEvent) Apply(r *Report) { r.Statuses++ }
func (e *StatusEvent) Message() string { return e.Text }

// TurnChangedEvent marks a new active unit.
type TurnChangedEvent struct {
	Unit  Ref    `json:"unit"`
	Name  string `json:"name"`
	Round int    `json:"round"`
}

func (e *TurnChangedEvent) Type() EventType { return EventTurnChanged }
func (e *TurnChangedEvent) Apply(r *Report) {
	r.Turns++
	if e.Round > r.Rounds {
		r.Rounds = e.Round
	}
}
func (e *TurnChangedEvent) Message() string {
	return fmt.Sprintf("Round %d: %s (%s) to act", e.Round, e.Name, e.Unit.Team)
}

// UnitMovedEvent records a walk, a landing or a teleport.
type UnitMovedEvent struct {
	Unit Ref    `json:"unit"`
	Name string `json:"name"`
	From Pos    `json:"from"`
	To   Pos    `json:"to"`
}

func (e *UnitMovedEvent) Type() EventType { return EventUnitMoved }
func (e *UnitMovedEvent) Apply(r *Report) { r.Moves[e.Unit.Team]++ }
func (e *UnitMovedEvent) Message() string {
	return fmt.Sprintf("%s move %s -> %s", e.Name, e.From, e.To)
}

// AttackResolvedEvent reports one strike. Attacker is nil for spells.
type AttackResolvedEvent struct {
	Attacker     *Ref       `json:"attacker,omitempty"`
	AttackerName string     `json:"attacker_name"`
	Defender     Ref        `json:"defender"`
	DefenderName string     `json:"defender_name"`
	Mode         AttackMode `json:"mode"`
	Damage       int        `json:"damage"`
	Kills        int        `json:"kills"`
	Cancelled    bool       `json:"cancelled"`
	Retaliation  bool       `json:"retaliation"`
}

func (e *AttackResolvedEvent) Type() EventType { return EventAttackResolved }
func (e *AttackResolvedEvent) Apply(r *Report) {
	// spells carry no attacker and are credited to the defender's opponent
	team := e.Defender.Team.Other()
	if e.Attacker != nil {
		team = e.Attacker.Team
	}
	r.Kills[team] += e.Kills
	r.Strikes++
}
func (e *AttackResolvedEvent) Message() string {
	var sb strings.Builder
	switch {
	case e.Cancelled:
		sb.WriteString(fmt.Sprintf("%s are immune to %s's magic", e.DefenderName, e.AttackerName))
		return sb.String()
	case e.Attacker == nil:
		sb.WriteString("The spell strikes, ")
	case e.Retaliation:
		sb.WriteString(fmt.Sprintf("%s retaliate, ", e.AttackerName))
	default:
		sb.WriteString(fmt.Sprintf("%s %s, ", e.AttackerName, e.Mode.verb()))
	}
	sb.WriteString(fmt.Sprintf("killing %d %s", e.Kills, e.DefenderName))
	return sb.String()
}

// HitShownEvent asks the host to draw the hit marker.
type HitShownEvent struct {
	Target Ref `json:"target"`
	At     Pos `json:"at"`
}

func (e *HitShownEvent) Type() EventType { return EventHitShown }
func (e *HitShownEvent) Apply(r *Report) {}
func (e *HitShownEvent) Message() string { return fmt.Sprintf("hit at %s", e.At) }

// HitHiddenEvent clears the hit marker once the delay elapses.
type HitHiddenEvent struct {
	Target Ref `json:"target"`
}

func (e *HitHiddenEvent) Type() EventType { return EventHitHidden }
func (e *HitHiddenEvent) Apply(r *Report) {}
func (e *HitHiddenEvent) Message() string { return "hit marker cleared" }

// UnitDiedEvent is emitted by the dead-unit sweep when a slot empties.
type UnitDiedEvent struct {
	Unit Ref    `json:"unit"`
	Name string `json:"name"`
}

func (e *UnitDiedEvent) Type() EventType { return EventUnitDied }
func (e *UnitDiedEvent) Apply(r *Report) { r.Losses[e.Unit.Team]++ }
func (e *UnitDiedEvent) Message() string {
	return fmt.Sprintf("%s (%s) are wiped out", e.Name, e.Unit.Team)
}

// SpellCastEvent records a spent spell charge.
type SpellCastEvent struct {
	Spell  SpellID `json:"spell"`
	Target Ref     `json:"target"`
	Name   string  `json:"name"`
}

func (e *SpellCastEvent) Type() EventType { return EventSpellCast }
func (e *SpellCastEvent) Apply(r *Report) { r.Casts++ }
func (e *SpellCastEvent) Message() string {
	return fmt.Sprintf("%s cast on %s", e.Spell, e.Name)
}

// ModeChangedEvent switches the host cursor between moving and shooting.
type ModeChangedEvent struct {
	Mode CursorMode `json:"mode"`
}

func (e *ModeChangedEvent) Type() EventType { return EventModeChanged }
func (e *ModeChangedEvent) Apply(r *Report) {}
func (e *ModeChangedEvent) Message() string {
	if e.Mode == CursorShoot {
		return "Select a target to shoot"
	}
	return "Select a destination"
}

// BattleEndedEvent carries the final result.
type BattleEndedEvent struct {
	Result  Result `json:"result"`
	Gold    int    `json:"gold"`
	Villain string `json:"villain,omitempty"`
}

func (e *BattleEndedEvent) Type() EventType { return EventBattleEnded }
func (e *BattleEndedEvent) Apply(r *Report) {
	r.Result = e.Result
	r.Gold = e.Gold
}
func (e *BattleEndedEvent) Message() string {
	switch e.Result {
	case ResultVictory:
		if e.Villain != "" {
			return fmt.Sprintf("Victory! You captured %s. Spoils: %d gold", e.Villain, e.Gold)
		}
		return fmt.Sprintf("Victory! Spoils: %d gold", e.Gold)
	case ResultDefeat:
		return "Your army has been defeated"
	case ResultDisgrace:
		return "You flee in disgrace"
	}
	return "Battle over"
}
