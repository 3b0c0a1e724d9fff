package gesture

import "github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"

// Pattern pairs a gesture with the finger vector that defines it.
type Pattern struct {
	Gesture Gesture
	Fingers Fingers
}

// Patterns is the ordered canonical table. Order decides ties: Classify keeps
// the first pattern at the minimum distance.
var Patterns = []Pattern{
	{Gesture: Rock, Fingers: Fingers{false, false, false, false, false}},
	{Gesture: Paper, Fingers: Fingers{true, true, true, true, true}},
	{Gesture: Scissors, Fingers: Fingers{false, true, true, false, false}},
}

// Classify returns the canonical gesture nearest to f by Hamming distance.
// It never returns None.
func Classify(f Fingers) Gesture {
	best := Rock
	bestDist := len(f) + 1

	for _, p := range Patterns {
		if d := f.Distance(p.Fingers); d < bestDist {
			best = p.Gesture
			bestDist = d
		}
	}

	return best
}

// FromHand classifies a detected hand. A nil hand means nobody played and
// yields None without consulting the classifier.
func FromHand(hand *detector.HandLandmarks) Gesture {
	if hand == nil {
		return None
	}

	handedness := hand.Handedness
	if handedness == "" {
		handedness = detector.Right
	}

	return Classify(FingerStates(hand.Flatten(), handedness))
}

// FingersFor returns the canonical finger vector of g. The second value is
// false for None or unknown gestures.
func FingersFor(g Gesture) (Fingers, bool) {
	for _, p := range Patterns {
		if p.Gesture == g {
			return p.Fingers, true
		}
	}
	return Fingers{}, false
}
