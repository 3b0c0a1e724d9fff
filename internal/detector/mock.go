package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// The fixtures below are right hands seen in a mirrored (selfie) frame:
// an extended thumb points toward larger x, extended fingers toward smaller y.

// RockLandmarks returns a closed fist.
func RockLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: Right,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb folded across the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.70, Z: -0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.66, Z: -0.02}
	landmarks.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.66, Z: -0.03}

	setCurled(&landmarks, IndexMCP, 0.55, 0.66)
	setCurled(&landmarks, MiddleMCP, 0.50, 0.64)
	setCurled(&landmarks, RingMCP, 0.45, 0.66)
	setCurled(&landmarks, PinkyMCP, 0.40, 0.68)

	return landmarks
}

// PaperLandmarks returns an open palm with all five digits extended.
func PaperLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: Right,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	setExtended(&landmarks, IndexMCP, 0.55, 0.68)
	setExtended(&landmarks, MiddleMCP, 0.50, 0.66)
	setExtended(&landmarks, RingMCP, 0.45, 0.68)
	setExtended(&landmarks, PinkyMCP, 0.40, 0.70)

	return landmarks
}

// ScissorsLandmarks returns index and middle extended, the rest curled.
func ScissorsLandmarks() HandLandmarks {
	landmarks := RockLandmarks()
	setExtended(&landmarks, IndexMCP, 0.55, 0.68)
	setExtended(&landmarks, MiddleMCP, 0.50, 0.66)
	return landmarks
}

// Mirror returns the hand reflected around x=0.5 with the opposite
// handedness label, as the model reports for the other hand.
func Mirror(h HandLandmarks) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X = 1 - out.Points[i].X
	}
	if h.Handedness == Left {
		out.Handedness = Right
	} else {
		out.Handedness = Left
	}
	return out
}

// setCurled places a finger whose tip folds back below its PIP joint.
func setCurled(h *HandLandmarks, mcp int, x, y float64) {
	h.Points[mcp] = Point3D{X: x, Y: y, Z: -0.02}
	h.Points[mcp+1] = Point3D{X: x, Y: y - 0.06, Z: -0.05}
	h.Points[mcp+2] = Point3D{X: x - 0.01, Y: y - 0.02, Z: -0.04}
	h.Points[mcp+3] = Point3D{X: x - 0.01, Y: y + 0.02, Z: -0.02}
}

// setExtended places a finger pointing straight up from its MCP joint.
func setExtended(h *HandLandmarks, mcp int, x, y float64) {
	h.Points[mcp] = Point3D{X: x, Y: y, Z: 0.0}
	h.Points[mcp+1] = Point3D{X: x, Y: y - 0.13, Z: 0.0}
	h.Points[mcp+2] = Point3D{X: x, Y: y - 0.23, Z: 0.0}
	h.Points[mcp+3] = Point3D{X: x, Y: y - 0.33, Z: 0.0}
}
