// Package round runs the judge side of a game: it announces rounds, accepts
// the hand's submission and scores the human's gesture against the robot's.
package round

import (
	"errors"
	"time"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
)

// State is a round's position in its lifecycle.
type State string

const (
	Idle      State = "idle"
	Started   State = "started"
	Submitted State = "submitted"
	Judged    State = "judged"
)

var (
	// ErrDecode is returned when a submission carries nothing that can be analyzed.
	ErrDecode = detector.ErrDecode

	// ErrExtraction is returned when the landmark model fails on a frame.
	ErrExtraction = detector.ErrExtraction

	// ErrInvalidGesture is returned when the robot's move is not rock, paper or scissors.
	ErrInvalidGesture = errors.New("invalid esp_move")

	// ErrRoundClosed is returned for a second submission to the same round.
	ErrRoundClosed = errors.New("round already submitted")
)

// Round is a snapshot of one round.
type Round struct {
	ID              string          `json:"round_id"`
	State           State           `json:"state"`
	StartedAt       time.Time       `json:"started_at"`
	ActuatorGesture gesture.Gesture `json:"esp_move,omitempty"`
	HumanGesture    gesture.Gesture `json:"player_move,omitempty"`
	Result          gesture.Result  `json:"result,omitempty"`
	JudgedAt        time.Time       `json:"judged_at,omitzero"`
}

// Submission is what the hand posts after acting out a round. Landmarks, when
// present, are used instead of running extraction on Image.
type Submission struct {
	RoundID   string
	Gesture   string
	Image     []byte
	Landmarks *detector.HandLandmarks
}

// Outcome is the judged result of a submission.
type Outcome struct {
	RoundID    string
	PlayerMove gesture.Gesture
	EspMove    gesture.Gesture
	Result     gesture.Result
}
