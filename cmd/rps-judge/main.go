// Package main runs the rock-paper-scissors judge.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/app"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/config"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/round"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/tray"
)

func main() {
	cfg, err := config.LoadJudge()
	if err != nil {
		config.Exitf("rps-judge: %v", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "judge",
	})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		config.Exitf("rps-judge: %v", err)
	}
}

func run(ctx context.Context, cfg config.Judge, logger *log.Logger) error {
	var t *tray.Tray
	if cfg.Tray {
		t = tray.New()
	}

	j, err := app.New(app.Config{
		Settings: cfg,
		Logger:   logger,
		Console:  os.Stdin,
		OnJudged: func(r round.Round) {
			if t != nil {
				t.SetLastResult(r.Result.String())
			}
		},
	})
	if err != nil {
		return err
	}
	defer j.Close()

	if t == nil {
		return j.Run(ctx)
	}

	// The tray owns the main thread; the judge runs beside it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.OnStart(func() {
		if _, err := j.Rounds().BroadcastStart(ctx, ""); err != nil {
			logger.Error("Could not start round", "err", err)
		}
	})
	t.OnQuit(cancel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- j.Run(ctx)
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-errCh
}
