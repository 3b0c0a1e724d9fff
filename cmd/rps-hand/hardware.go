package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/actuator"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/capture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/servo"
)

// ServoFlags select the servo helper and digit calibration.
type ServoFlags struct {
	ServoHelper  string        `help:"Servo helper executable; simulated when empty or missing" env:"RPS_HAND_SERVO_HELPER"`
	ServoTimeout time.Duration `default:"2s" help:"Timeout per servo command" env:"RPS_HAND_SERVO_TIMEOUT"`
	Calibration  string        `default:"hand.hcl" type:"path" help:"HCL digit calibration file" env:"RPS_HAND_CALIBRATION"`
}

func (f ServoFlags) hand(logger *log.Logger) (*actuator.Hand, error) {
	cal, err := actuator.LoadCalibration(f.Calibration)
	if err != nil {
		return nil, fmt.Errorf("load calibration: %w", err)
	}
	driver := servo.Open(f.ServoHelper, f.ServoTimeout, logger.WithPrefix("servo"))
	return actuator.NewHand(driver, cal, nil, logger.WithPrefix("hand")), nil
}

// CameraFlags select and warm up the camera.
type CameraFlags struct {
	Camera int           `default:"0" help:"Camera device index" env:"RPS_HAND_CAMERA"`
	Warmup time.Duration `default:"2s" help:"Sensor settle time before the test capture" env:"RPS_HAND_WARMUP"`
}

// open returns a warmed-up camera. A camera that fails its test capture is
// fatal for the hand.
func (f CameraFlags) open(ctx context.Context, logger *log.Logger) (capture.Camera, error) {
	cam := capture.NewCamera(f.Camera, capture.DefaultWidth, capture.DefaultHeight)
	logger.Info("Warming up camera", "device", f.Camera, "settle", f.Warmup)
	if err := capture.Warmup(ctx, cam, quartz.NewReal(), f.Warmup); err != nil {
		return nil, fmt.Errorf("camera %d: %w", f.Camera, err)
	}
	return cam, nil
}

// serveHTTP serves h on addr until ctx is cancelled.
func serveHTTP(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Preview listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
