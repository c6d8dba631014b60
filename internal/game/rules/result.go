package rules

// Result is the three-way outcome of a check against a difficulty class.
type Result int

const (
	Win Result = iota
	Tie
	Lose
)

// String returns a human-readable result label.
func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Tie:
		return "tie"
	case Lose:
		return "lose"
	default:
		return "unknown"
	}
}

// Compare resolves a rolled total against dc.
//
// Postcondition: Win iff total > dc; Tie iff total == dc; Lose iff total < dc.
func Compare(total, dc int) Result {
	switch {
	case total == dc:
		return Tie
	case total > dc:
		return Win
	default:
		return Lose
	}
}
