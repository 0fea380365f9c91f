package rules

import (
	"fmt"

	"github.com/suderio/warband/internal/engine"
)

// DefaultPayoutFormula matches engine.DefaultPayout.
const DefaultPayoutFormula = "enemy_value / 10"

// SpoilsContext converts the spoils of a victory into CEL variables.
func SpoilsContext(s engine.Spoils) map[string]any {
	return map[string]any{
		"enemy_value":      int64(s.EnemyValue),
		"followers_killed": int64(s.FollowersKilled),
		"siege":            s.Siege,
		"difficulty":       int64(s.Difficulty),
	}
}

// Payout compiles expression into an engine.PayoutFunc. The formula must
// yield an int; negative gold is paid as zero.
func (r *Registry) Payout(expression string) (engine.PayoutFunc, error) {
	if expression == "" {
		expression = DefaultPayoutFormula
	}
	prog, err := r.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile payout formula: %w", err)
	}
	return func(s engine.Spoils) (int, error) {
		out, _, err := prog.Eval(SpoilsContext(s))
		if err != nil {
			return 0, fmt.Errorf("failed to evaluate payout formula: %w", err)
		}
		gold, ok := out.Value().(int64)
		if !ok {
			return 0, fmt.Errorf("payout formula returned %T, want int", out.Value())
		}
		return max(int(gold), 0), nil
	}, nil
}
