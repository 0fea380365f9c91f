package parser

import (
	"fmt"
	"strings"
)

// Usage lists every command, one per line.
const Usage = `move to: X Y        walk, land, attack the stack there, or click yourself to aim
shoot at: X Y       fire at the stack on that tile
cast SPELL at: X Y  clone, fireball, lightning, freeze, resurrect, turn undead
cast teleport at: X Y to: X Y
wait | pass | retreat | help`

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	parts := strings.Fields(strings.ToLower(input))
	switch parts[0] {
	case "move", "go", "attack":
		return fmt.Errorf("The command move must be: move to: X Y")
	case "shoot":
		return fmt.Errorf("The command shoot must be: shoot at: X Y")
	case "cast":
		return fmt.Errorf("The command cast must be: cast <spell> at: X Y [to: X Y]")
	case "wait", "pass", "skip", "retreat", "flee", "help":
		return fmt.Errorf("The command %s takes no arguments", parts[0])
	}

	return fmt.Errorf("I wasn't able to understand your command")
}
