package servo

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// SimDriver logs commands instead of moving hardware. It remembers the last
// angle per channel.
type SimDriver struct {
	logger *log.Logger

	mu     sync.Mutex
	angles map[int]int
	calls  []Request
}

// NewSimDriver creates a SimDriver.
func NewSimDriver(logger *log.Logger) *SimDriver {
	if logger == nil {
		logger = log.Default()
	}
	return &SimDriver{logger: logger, angles: make(map[int]int)}
}

func (d *SimDriver) SetAngle(ctx context.Context, channel, angle int) error {
	if !ValidChannel(channel) {
		return fmt.Errorf("channel %d: %w", channel, ErrChannelRange)
	}
	angle = Clamp(angle)

	d.mu.Lock()
	d.angles[channel] = angle
	d.calls = append(d.calls, Request{Channel: channel, Angle: angle})
	d.mu.Unlock()

	d.logger.Debug("Servo (sim)", "channel", channel, "angle", angle)
	return nil
}

// Angle returns the last angle commanded on channel.
func (d *SimDriver) Angle(channel int) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.angles[channel]
	return a, ok
}

// Calls returns every command in order.
func (d *SimDriver) Calls() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.calls...)
}
