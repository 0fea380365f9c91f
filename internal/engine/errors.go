package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget: no unit at the cursor, or a unit on the wrong side.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrImmuneTarget: the target shrugs the spell off.
	ErrImmuneTarget = errors.New("immune target")
	// ErrActionNotAllowed: the request broke turn or round rules.
	ErrActionNotAllowed = errors.New("action not allowed")
	// ErrInvalidBattle: the battle could not be constructed from the given armies.
	ErrInvalidBattle = errors.New("invalid battle")
)

// RejectedError is returned by Submit for intents that fail validation.
// Message is the one-line status text shown to the player.
type RejectedError struct {
	Kind    error
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Kind
}

// reject surfaces msg as a status line and returns the matching error.
// It never touches unit state.
func (b *Battle) reject(kind error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	b.status("%s", msg)
	return &RejectedError{Kind: kind, Message: msg}
}

// IsRejection reports whether err is an ordinary action rejection rather than
// an engine failure.
func IsRejection(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
