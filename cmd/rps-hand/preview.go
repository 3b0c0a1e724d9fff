package main

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/capture"
)

// PreviewCmd serves the camera over HTTP.
type PreviewCmd struct {
	Addr string `default:":8081" help:"Listen address" env:"RPS_HAND_PREVIEW_ADDR"`

	CameraFlags `embed:""`
}

func (c *PreviewCmd) Run(ctx context.Context, logger *log.Logger) error {
	cam, err := c.open(ctx, logger)
	if err != nil {
		return err
	}
	defer cam.Close()

	handler := capture.NewPreviewHandler(capture.NewJPEGSource(cam), 0, logger)
	return serveHTTP(ctx, c.Addr, handler, logger)
}
