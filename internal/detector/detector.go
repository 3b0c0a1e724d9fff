package detector

import (
	"errors"

	"github.com/coder/quartz"
	"gocv.io/x/gocv"
)

var (
	// ErrDecode is returned when submitted image bytes cannot be decoded into a frame.
	ErrDecode = errors.New("image decode failed")

	// ErrExtraction is returned when the landmark model fails to process a frame.
	ErrExtraction = errors.New("landmark extraction failed")
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect. The judge only
	// evaluates the first hand.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// ScriptPath overrides the location of scripts/hand_landmarker.py.
	ScriptPath string

	// Python overrides the interpreter used to run the service.
	Python string

	// Clock drives the helper's idle shutdown.
	Clock quartz.Clock
}

// DefaultConfig returns the settings the judge runs with: one hand,
// 0.5 detection confidence, still-image mode.
func DefaultConfig() Config {
	return Config{
		MaxHands:      1,
		MinConfidence: 0.5,
	}
}
