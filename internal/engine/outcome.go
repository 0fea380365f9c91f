package engine

// Result is the terminal state of a battle.
type Result int

const (
	ResultNone Result = iota
	ResultVictory
	ResultDefeat
	ResultDisgrace
)

func (r Result) String() string {
	switch r {
	case ResultVictory:
		return "victory"
	case ResultDefeat:
		return "defeat"
	case ResultDisgrace:
		return "disgrace"
	}
	return "none"
}

// CursorMode tells the host what a grid selection means.
type CursorMode int

const (
	CursorMove CursorMode = iota
	CursorShoot
)

func (m CursorMode) String() string {
	if m == CursorShoot {
		return "shoot"
	}
	return "move"
}

// Phase is the externally observable scheduler state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseAwaitingDelay
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseAwaitingDelay:
		return "awaiting-delay"
	case PhaseOver:
		return "over"
	}
	return "idle"
}

// Spoils is what a payout formula may look at.
type Spoils struct {
	EnemyValue      int  `cel:"enemy_value"`
	FollowersKilled int  `cel:"followers_killed"`
	Siege           bool `cel:"siege"`
	Difficulty      int  `cel:"difficulty"`
}

// PayoutFunc turns the spoils of a victory into gold.
type PayoutFunc func(Spoils) (int, error)

// DefaultPayout pays a tenth of the enemy army's weekly upkeep value.
func DefaultPayout(s Spoils) (int, error) {
	return s.EnemyValue / 10, nil
}

// Outcome is what the overworld reads back once the battle is over.
type Outcome struct {
	Result          Result
	Gold            int
	CapturedVillain string
	PlayerArmy      [SlotCount]*Stack // surviving player stacks, nil for empty slots
	FollowersKilled int
}
