package gesture

import (
	"testing"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
)

func TestFingerStates_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		flat []float64
	}{
		{name: "nil", flat: nil},
		{name: "empty", flat: []float64{}},
		{name: "one short", flat: make([]float64, detector.FlatLen-1)},
		{name: "single point", flat: []float64{0.5, 0.5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, hand := range []string{detector.Left, detector.Right, ""} {
				if got := FingerStates(tt.flat, hand); got != (Fingers{}) {
					t.Errorf("FingerStates(%s) = %v, want all bent", hand, got)
				}
			}
		})
	}
}

func TestFingerStates_Fixtures(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Fingers
	}{
		{name: "rock", hand: detector.RockLandmarks(), want: Fingers{false, false, false, false, false}},
		{name: "paper", hand: detector.PaperLandmarks(), want: Fingers{true, true, true, true, true}},
		{name: "scissors", hand: detector.ScissorsLandmarks(), want: Fingers{false, true, true, false, false}},
		{name: "mirrored paper", hand: detector.Mirror(detector.PaperLandmarks()), want: Fingers{true, true, true, true, true}},
		{name: "mirrored rock", hand: detector.Mirror(detector.RockLandmarks()), want: Fingers{false, false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FingerStates(tt.hand.Flatten(), tt.hand.Handedness)
			if got != tt.want {
				t.Errorf("FingerStates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFingerStates_ThumbDependsOnHandedness(t *testing.T) {
	flat := make([]float64, detector.FlatLen)
	flat[detector.ThumbMCP*3] = 0.5
	flat[detector.ThumbTip*3] = 0.7

	if !FingerStates(flat, detector.Right)[Thumb] {
		t.Error("right hand with tip right of MCP should have thumb extended")
	}
	if FingerStates(flat, detector.Left)[Thumb] {
		t.Error("left hand with tip right of MCP should have thumb bent")
	}

	flat[detector.ThumbTip*3] = 0.5
	if FingerStates(flat, detector.Right)[Thumb] || FingerStates(flat, detector.Left)[Thumb] {
		t.Error("tip level with MCP should count as bent for either hand")
	}
}

func TestFingerStates_UsesTipAndPIP(t *testing.T) {
	flat := make([]float64, detector.FlatLen)
	flat[detector.RingPIP*3+1] = 0.6
	flat[detector.RingTip*3+1] = 0.4
	// DIP and MCP must not matter.
	flat[detector.RingDIP*3+1] = 0.1
	flat[detector.RingMCP*3+1] = 0.0

	got := FingerStates(flat, detector.Right)
	want := Fingers{false, false, false, true, false}
	if got != want {
		t.Errorf("FingerStates() = %v, want %v", got, want)
	}
}

func TestFingers_Distance(t *testing.T) {
	paper := Fingers{true, true, true, true, true}
	rock := Fingers{}
	scissors := Fingers{false, true, true, false, false}

	if d := paper.Distance(rock); d != 5 {
		t.Errorf("paper vs rock = %d, want 5", d)
	}
	if d := scissors.Distance(rock); d != 2 {
		t.Errorf("scissors vs rock = %d, want 2", d)
	}
	if d := scissors.Distance(scissors); d != 0 {
		t.Errorf("scissors vs itself = %d, want 0", d)
	}
}

func TestDigit_String(t *testing.T) {
	if Thumb.String() != "thumb" || Pinky.String() != "pinky" {
		t.Errorf("unexpected digit names %q %q", Thumb, Pinky)
	}
	if Digit(9).String() != "unknown" {
		t.Errorf("out of range digit should be unknown")
	}
}
