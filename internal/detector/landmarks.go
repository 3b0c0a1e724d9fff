// Package detector provides hand landmark types and the landmark extraction
// interface used by the judge.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21

	// FlatLen is the number of scalars in a flattened landmark set (x, y, z per point).
	FlatLen = NumLandmarks * 3
)

// Handedness labels reported by the landmark model.
const (
	Left  = "Left"
	Right = "Right"
)

// Connections lists the landmark pairs joined by a bone, used when drawing
// the skeleton overlay.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point3D is a landmark position. X and Y are normalized to the image
// width and height; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Flatten returns the landmarks as x0, y0, z0, x1, ... (63 scalars).
// A nil hand flattens to nil.
func (h *HandLandmarks) Flatten() []float64 {
	if h == nil {
		return nil
	}

	flat := make([]float64, 0, FlatLen)
	for _, p := range h.Points {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return flat
}

// FromFlat builds a HandLandmarks from a flattened coordinate slice.
// It returns false if fewer than FlatLen scalars are given.
func FromFlat(flat []float64, handedness string) (HandLandmarks, bool) {
	h := HandLandmarks{Handedness: handedness}
	if len(flat) < FlatLen {
		return h, false
	}

	for i := 0; i < NumLandmarks; i++ {
		h.Points[i] = Point3D{X: flat[i*3], Y: flat[i*3+1], Z: flat[i*3+2]}
	}
	return h, true
}
