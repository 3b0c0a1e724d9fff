package gesture

import "github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"

// Digit indexes a Fingers vector.
type Digit int

const (
	Thumb Digit = iota
	Index
	Middle
	Ring
	Pinky
)

// Digits lists every digit in vector order.
var Digits = [5]Digit{Thumb, Index, Middle, Ring, Pinky}

var digitNames = [5]string{"thumb", "index", "middle", "ring", "pinky"}

func (d Digit) String() string {
	if d < Thumb || d > Pinky {
		return "unknown"
	}
	return digitNames[d]
}

// Fingers holds one extension flag per digit, thumb first. True means the
// digit is straight.
type Fingers [5]bool

// tip and joint landmark pairs for the four non-thumb fingers.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// FingerStates derives the extension vector from a flattened landmark set
// (x, y, z per point). Fewer than 63 scalars yields all digits bent.
//
// The thumb compares tip and MCP x coordinates and assumes a mirrored camera
// frame: a Right hand is extended when the tip lies right of the MCP, any
// other label when it lies left. The other fingers are extended when the tip
// sits above (smaller y than) the PIP joint.
func FingerStates(flat []float64, handedness string) Fingers {
	var f Fingers
	if len(flat) < detector.FlatLen {
		return f
	}

	x := func(i int) float64 { return flat[i*3] }
	y := func(i int) float64 { return flat[i*3+1] }

	if handedness == detector.Right {
		f[Thumb] = x(detector.ThumbTip) > x(detector.ThumbMCP)
	} else {
		f[Thumb] = x(detector.ThumbTip) < x(detector.ThumbMCP)
	}

	for i, j := range fingerJoints {
		f[Index+Digit(i)] = y(j[0]) < y(j[1])
	}

	return f
}

// Distance is the number of digits whose state differs.
func (f Fingers) Distance(other Fingers) int {
	d := 0
	for i := range f {
		if f[i] != other[i] {
			d++
		}
	}
	return d
}
