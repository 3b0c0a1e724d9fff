package actuator

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/servo"
)

// DefaultStepDelay is the pause between two digit commands.
const DefaultStepDelay = 40 * time.Millisecond

// DigitCalibration maps one digit onto a servo channel. A nil Channel leaves
// the digit unwired.
type DigitCalibration struct {
	Channel  *int
	Bent     int
	Straight int
	Invert   bool
}

// Angle returns the servo angle for the digit, mirrored when Invert is set
// and clamped to the servo range.
func (d DigitCalibration) Angle(straight bool) int {
	a := d.Bent
	if straight {
		a = d.Straight
	}
	if d.Invert {
		a = servo.MaxAngle - a
	}
	return servo.Clamp(a)
}

// Calibration holds the per-digit mapping, indexed by gesture.Digit.
type Calibration struct {
	Digits    [5]DigitCalibration
	StepDelay time.Duration
}

func channel(n int) *int { return &n }

// DefaultCalibration matches the stock hand wiring: thumb to pinky on
// channels 1 to 5.
func DefaultCalibration() Calibration {
	return Calibration{
		Digits: [5]DigitCalibration{
			gesture.Thumb:  {Channel: channel(1), Bent: 0, Straight: 90},
			gesture.Index:  {Channel: channel(2), Bent: 0, Straight: 90},
			gesture.Middle: {Channel: channel(3), Bent: 0, Straight: 120},
			gesture.Ring:   {Channel: channel(4), Bent: 0, Straight: 120},
			gesture.Pinky:  {Channel: channel(5), Bent: 0, Straight: 120},
		},
		StepDelay: DefaultStepDelay,
	}
}

type calibrationFile struct {
	StepDelay string       `hcl:"step_delay,optional"`
	Digits    []digitBlock `hcl:"digit,block"`
}

type digitBlock struct {
	Name     string `hcl:"name,label"`
	Channel  *int   `hcl:"channel,optional"`
	Bent     *int   `hcl:"bent,optional"`
	Straight *int   `hcl:"straight,optional"`
	Invert   *bool  `hcl:"invert,optional"`
	Disabled bool   `hcl:"disabled,optional"`
}

// LoadCalibration reads an HCL calibration file:
//
//	step_delay = "40ms"
//	digit "thumb" {
//	  channel  = 1
//	  straight = 90
//	  invert   = true
//	}
//
// Unset attributes keep their defaults. A missing file yields
// DefaultCalibration.
func LoadCalibration(filename string) (Calibration, error) {
	cal := DefaultCalibration()
	if filename == "" {
		return cal, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cal, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return cal, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cf calibrationFile
	if diags := gohcl.DecodeBody(file.Body, nil, &cf); diags.HasErrors() {
		return cal, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cf.StepDelay != "" {
		d, err := time.ParseDuration(cf.StepDelay)
		if err != nil || d < 0 {
			return cal, fmt.Errorf("invalid step_delay %q", cf.StepDelay)
		}
		cal.StepDelay = d
	}

	for _, b := range cf.Digits {
		d, ok := digitByName(b.Name)
		if !ok {
			return cal, fmt.Errorf("unknown digit %q", b.Name)
		}
		dc := &cal.Digits[d]
		if b.Disabled {
			dc.Channel = nil
		} else if b.Channel != nil {
			dc.Channel = channel(*b.Channel)
		}
		if b.Bent != nil {
			dc.Bent = *b.Bent
		}
		if b.Straight != nil {
			dc.Straight = *b.Straight
		}
		if b.Invert != nil {
			dc.Invert = *b.Invert
		}
	}

	return cal, nil
}

func digitByName(name string) (gesture.Digit, bool) {
	for _, d := range gesture.Digits {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}
