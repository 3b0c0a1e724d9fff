package detector

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gocv.io/x/gocv"
)

// FrameRecorder receives copies of analyzed frames for debugging.
// Implementations must be safe for concurrent use.
type FrameRecorder interface {
	RecordRaw(roundID string, frame gocv.Mat) error
	RecordAnnotated(roundID string, frame gocv.Mat, hand *HandLandmarks) error
}

// Analyzer decodes submitted JPEG frames and runs them through a Detector.
type Analyzer struct {
	detector Detector
	recorder FrameRecorder
	logger   *log.Logger
}

// NewAnalyzer creates an Analyzer. recorder may be nil.
func NewAnalyzer(d Detector, recorder FrameRecorder, logger *log.Logger) *Analyzer {
	return &Analyzer{
		detector: d,
		recorder: recorder,
		logger:   logger,
	}
}

// Analyze decodes image and returns the first detected hand, or nil when
// no hand is present. Undecodable input returns an error wrapping ErrDecode.
func (a *Analyzer) Analyze(ctx context.Context, roundID string, image []byte) (*HandLandmarks, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: no image", ErrDecode)
	}

	frame, err := gocv.IMDecode(image, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer frame.Close()

	if frame.Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrDecode)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.record(func() error { return a.recorder.RecordRaw(roundID, frame) })

	hands, err := a.detector.Detect(&frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}

	var hand *HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
	}

	a.record(func() error { return a.recorder.RecordAnnotated(roundID, frame, hand) })

	return hand, nil
}

func (a *Analyzer) record(fn func() error) {
	if a.recorder == nil {
		return
	}
	if err := fn(); err != nil && a.logger != nil {
		a.logger.Warn("Failed to archive frame", "error", err)
	}
}
