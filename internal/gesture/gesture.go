// Package gesture turns hand landmarks into rock-paper-scissors gestures and
// judges rounds between a human and the robot hand.
package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGesture is returned when a name does not match a canonical gesture.
var ErrUnknownGesture = errors.New("unknown gesture")

// Gesture is one of the three canonical hand shapes, or None when no hand
// was seen.
type Gesture string

const (
	None     Gesture = "none"
	Rock     Gesture = "rock"
	Paper    Gesture = "paper"
	Scissors Gesture = "scissors"
)

// All lists the canonical gestures in classification order.
var All = []Gesture{Rock, Paper, Scissors}

// Parse converts a wire name into a canonical gesture. Matching ignores case
// and surrounding whitespace. None is not accepted.
func Parse(s string) (Gesture, error) {
	switch g := Gesture(strings.ToLower(strings.TrimSpace(s))); g {
	case Rock, Paper, Scissors:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGesture, s)
	}
}

// Canonical reports whether g is rock, paper or scissors.
func (g Gesture) Canonical() bool {
	return g == Rock || g == Paper || g == Scissors
}

func (g Gesture) String() string {
	return string(g)
}
