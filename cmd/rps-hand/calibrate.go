package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
)

// CalibrateCmd poses each gesture in turn.
type CalibrateCmd struct {
	Hold time.Duration `default:"2s" help:"How long to hold each gesture"`

	ServoFlags `embed:""`
}

func (c *CalibrateCmd) Run(ctx context.Context, logger *log.Logger) error {
	hand, err := c.hand(logger)
	if err != nil {
		return err
	}

	for _, g := range []gesture.Gesture{gesture.Paper, gesture.Rock, gesture.Scissors} {
		logger.Info("Posing", "gesture", g)
		if err := hand.Perform(ctx, g); err != nil {
			logger.Warn("Gesture incomplete", "gesture", g, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.Hold):
		}
	}

	logger.Info("Calibration done")
	return nil
}
