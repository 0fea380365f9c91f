package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Roller is the dice source exposed to formulas as roll(min, max).
type Roller interface {
	Roll(min, max int) int
}

// Registry manages the CEL environment used for battle formulas.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment with the spoils variables and a
// roll function backed by roller.
func NewRegistry(roller Roller) (*Registry, error) {
	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),
		ext.Math(),

		cel.Variable("enemy_value", cel.IntType),
		cel.Variable("followers_killed", cel.IntType),
		cel.Variable("siege", cel.BoolType),
		cel.Variable("difficulty", cel.IntType),

		cel.Function("roll",
			cel.Overload("roll_int_int",
				[]*cel.Type{cel.IntType, cel.IntType},
				cel.IntType,
				cel.BinaryBinding(func(lo, hi ref.Val) ref.Val {
					if roller == nil {
						return types.NewErr("roll is unavailable: no dice configured")
					}
					return types.Int(roller.Roll(int(lo.Value().(int64)), int(hi.Value().(int64))))
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env}, nil
}

// Compile checks an expression once so it can be evaluated many times.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	ast, iss := r.env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", iss.Err())
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return prog, nil
}

// Eval executes a CEL expression against the provided variables.
func (r *Registry) Eval(expression string, vars map[string]any) (any, error) {
	prog, err := r.Compile(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("CEL eval error: %w", err)
	}
	return out.Value(), nil
}
