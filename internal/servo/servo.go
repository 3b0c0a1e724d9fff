// Package servo drives the hand's servo channels, either through an external
// helper executable or in simulation.
package servo

import (
	"context"
	"errors"
)

// Channel and angle limits of the servo board.
const (
	Channels = 16
	MinAngle = 0
	MaxAngle = 180
)

var (
	// ErrHardwareUnavailable is returned when no servo helper can be reached.
	ErrHardwareUnavailable = errors.New("servo hardware unavailable")
	// ErrChannelRange is returned for a channel outside 0..Channels-1.
	ErrChannelRange = errors.New("servo channel out of range")
)

// Driver moves one servo channel to an angle in degrees.
type Driver interface {
	SetAngle(ctx context.Context, channel, angle int) error
}

// Request is the JSON document a helper reads from stdin.
type Request struct {
	Channel int `json:"channel"`
	Angle   int `json:"angle"`
}

// Response is the JSON document a helper writes to stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ValidChannel reports whether ch addresses a servo on the board.
func ValidChannel(ch int) bool {
	return ch >= 0 && ch < Channels
}

// Clamp limits angle to MinAngle..MaxAngle.
func Clamp(angle int) int {
	return max(MinAngle, min(MaxAngle, angle))
}
