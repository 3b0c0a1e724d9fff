package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/actuator"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/capture"
)

// RunCmd plays rounds until interrupted.
type RunCmd struct {
	Judge             string        `default:"http://localhost:5000" help:"Judge base URL" env:"RPS_HAND_JUDGE"`
	RoundTimeout      time.Duration `default:"15s" help:"Force-release a round after this long" env:"RPS_HAND_ROUND_TIMEOUT"`
	SubmitTimeout     time.Duration `default:"5s" help:"Upload timeout" env:"RPS_HAND_SUBMIT_TIMEOUT"`
	ReconnectAttempts int           `default:"5" help:"Failed dials in a row before giving up" env:"RPS_HAND_RECONNECT_ATTEMPTS"`
	ReconnectDelay    time.Duration `default:"1s" help:"Pause between dials" env:"RPS_HAND_RECONNECT_DELAY"`
	PreviewAddr       string        `help:"Also serve the camera preview on this address" env:"RPS_HAND_PREVIEW_ADDR"`

	ServoFlags  `embed:""`
	CameraFlags `embed:""`
}

func (c *RunCmd) Run(ctx context.Context, logger *log.Logger) error {
	cam, err := c.open(ctx, logger)
	if err != nil {
		return err
	}
	defer cam.Close()
	frames := capture.NewJPEGSource(cam)

	hand, err := c.hand(logger)
	if err != nil {
		return err
	}

	ctrl := actuator.NewController(hand, frames, actuator.NewHTTPSubmitter(c.Judge, c.SubmitTimeout), actuator.Options{
		Context:      ctx,
		Logger:       logger.WithPrefix("round"),
		RoundTimeout: c.RoundTimeout,
	})
	defer ctrl.Wait()

	client, err := actuator.NewClient(c.Judge, ctrl, actuator.ClientOptions{
		Attempts: c.ReconnectAttempts,
		Delay:    c.ReconnectDelay,
		Logger:   logger.WithPrefix("ws"),
	})
	if err != nil {
		return fmt.Errorf("judge address: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Run(ctx)
	})
	if c.PreviewAddr != "" {
		g.Go(func() error {
			return serveHTTP(ctx, c.PreviewAddr, capture.NewPreviewHandler(frames, 0, logger), logger)
		})
	}

	logger.Info("Hand ready", "judge", client.URL())
	return g.Wait()
}
