// Package main runs the robot hand: it listens to the judge, poses a gesture
// on every round start and submits a photo of the player.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Debug     bool             `help:"Enable debug logging" env:"RPS_HAND_DEBUG"`
	Run       RunCmd           `cmd:"" default:"withargs" help:"Play the rounds the judge announces"`
	Calibrate CalibrateCmd     `cmd:"" help:"Cycle paper, rock and scissors to check the wiring"`
	Preview   PreviewCmd       `cmd:"" help:"Stream the camera as MJPEG for aiming it"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("rps-hand"),
		kong.Description("Rock-paper-scissors robot hand"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hand",
	})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err := kctx.Run(logger)
	kctx.FatalIfErrorf(err)
}
