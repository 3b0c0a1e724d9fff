package actuator

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/servo"
)

// Hand poses the servo hand.
type Hand struct {
	driver servo.Driver
	cal    Calibration
	clock  quartz.Clock
	logger *log.Logger
}

// NewHand creates a Hand. A nil clock uses the real clock.
func NewHand(driver servo.Driver, cal Calibration, clock quartz.Clock, logger *log.Logger) *Hand {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hand{driver: driver, cal: cal, clock: clock, logger: logger}
}

// Perform drives each digit in turn, thumb first, pausing StepDelay after
// every command. Unwired digits are skipped. Driver failures do not stop the
// remaining digits; they are returned together.
func (h *Hand) Perform(ctx context.Context, g gesture.Gesture) error {
	fingers, ok := gesture.FingersFor(g)
	if !ok {
		return fmt.Errorf("perform %q: %w", g, gesture.ErrUnknownGesture)
	}

	var errs []error
	for _, d := range gesture.Digits {
		dc := h.cal.Digits[d]
		if dc.Channel == nil {
			h.logger.Warn("Digit not wired, skipped", "digit", d)
			continue
		}
		if !servo.ValidChannel(*dc.Channel) {
			h.logger.Warn("Digit channel out of range, skipped", "digit", d, "channel", *dc.Channel)
			continue
		}

		angle := dc.Angle(fingers[d])
		if err := h.driver.SetAngle(ctx, *dc.Channel, angle); err != nil {
			h.logger.Error("Servo command failed", "digit", d, "channel", *dc.Channel, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}

		if err := h.pause(ctx); err != nil {
			return err
		}
	}

	h.logger.Debug("Gesture performed", "gesture", g)
	return errors.Join(errs...)
}

func (h *Hand) pause(ctx context.Context) error {
	if h.cal.StepDelay <= 0 {
		return nil
	}
	t := h.clock.NewTimer(h.cal.StepDelay, "hand", "step")
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
