package gesture

// Result is the outcome of a round from the human player's side.
type Result string

const (
	Win              Result = "win"
	Lose             Result = "lose"
	Draw             Result = "draw"
	NoPlayerDetected Result = "no_player_detected"
)

func (r Result) String() string {
	return string(r)
}

var beats = map[Gesture]Gesture{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Beats reports whether a defeats b.
func Beats(a, b Gesture) bool {
	return beats[a] == b && a.Canonical()
}

// Judge scores human against the robot's gesture.
func Judge(human, robot Gesture) Result {
	switch {
	case human == None:
		return NoPlayerDetected
	case human == robot:
		return Draw
	case Beats(human, robot):
		return Win
	default:
		return Lose
	}
}
