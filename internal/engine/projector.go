package engine

// Report is the summary folded out of a battle's event sequence.
type Report struct {
	Statuses int    `json:"statuses"`
	Turns    int    `json:"turns"`
	Rounds   int    `json:"rounds"`
	Moves    [2]int `json:"moves"`
	Kills    [2]int `json:"kills"`  // individuals killed by each team
	Losses   [2]int `json:"losses"` // stacks wiped out per team
	Strikes  int    `json:"strikes"`
	Casts    int    `json:"casts"`
	Result   Result `json:"result"`
	Gold     int    `json:"gold"`
}

// Projector computes a Report from the Event sequence
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Build folds the events in order.
func (p *Projector) Build(events []Event) *Report {
	r := &Report{}
	for _, evt := range events {
		evt.Apply(r)
	}
	return r
}

// Summarize is shorthand for NewProjector().Build(events).
func Summarize(events []Event) *Report {
	return NewProjector().Build(events)
}
