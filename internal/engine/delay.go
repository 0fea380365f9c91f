package engine

import (
	"time"

	"go.uber.org/zap"
)

// delayStep is the duration of one combat delay setting notch.
const delayStep = 240 * time.Millisecond

// DelayForSetting maps the 0-9 combat delay setting to a presentation delay.
// Out-of-range settings are clamped.
func DelayForSetting(n int) time.Duration {
	n = min(max(n, 0), 9)
	return time.Duration(n) * delayStep
}

// ContinuationKind names what happens once a presentation delay elapses.
type ContinuationKind int

const (
	ContResume ContinuationKind = iota
	ContAdvance
	ContWaitAdvance
	ContClearDead
	ContClearDeadThenAdvance
	ContRetaliate
)

func (k ContinuationKind) String() string {
	switch k {
	case ContAdvance:
		return "advance"
	case ContWaitAdvance:
		return "wait-advance"
	case ContClearDead:
		return "clear-dead"
	case ContClearDeadThenAdvance:
		return "clear-dead-then-advance"
	case ContRetaliate:
		return "retaliate"
	}
	return "resume"
}

// Continuation is the single pending follow-up of a battle.
type Continuation struct {
	Kind      ContinuationKind
	Remaining time.Duration

	// Retaliate only: the opening attacker and defender, and the turn counts
	// snapshotted when the exchange began.
	Attacker Ref
	Defender Ref
}

// schedule installs the pending continuation. A second schedule while one is
// pending is an engine bug.
func (b *Battle) schedule(c Continuation) {
	if b.pending != nil {
		b.log.Error("continuation already pending",
			zap.Stringer("pending", b.pending.Kind),
			zap.Stringer("new", c.Kind))
		return
	}
	c.Remaining = b.delay
	b.pending = &c
	b.log.Debug("continuation scheduled", zap.Stringer("kind", c.Kind), zap.Duration("delay", c.Remaining))
}

// resume runs an expired continuation. It has already been cleared.
func (b *Battle) resume(c Continuation) {
	switch c.Kind {
	case ContResume:
	case ContAdvance:
		b.advance()
	case ContWaitAdvance:
		b.selectNext()
	case ContClearDead:
		b.clearDead()
		b.checkEnd()
	case ContClearDeadThenAdvance:
		b.clearDead()
		if !b.checkEnd() {
			b.advance()
		}
	case ContRetaliate:
		b.retaliate(c.Attacker, c.Defender)
	}
}
