// Package console reads operator commands for the judge from a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
)

// ErrQuit is returned by Run when the operator asks to stop the judge.
var ErrQuit = errors.New("quit requested")

// Trigger starts a round, optionally asking for a specific hand gesture.
type Trigger interface {
	BroadcastStart(ctx context.Context, requested string) (protocol.StartEvent, error)
}

// Run reads commands line by line until ctx is done, the input ends, or the
// operator types exit or quit. Commands are trimmed and case-insensitive:
//
//	start [rock|paper|scissors]   start a round
//	exit, quit                    stop the judge
func Run(ctx context.Context, in io.Reader, trigger Trigger, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := handle(ctx, line, trigger, logger); err != nil {
				return err
			}
		}
	}
}

func handle(ctx context.Context, line string, trigger Trigger, logger *log.Logger) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "start":
		requested := ""
		if len(fields) > 1 {
			requested = fields[1]
		}
		ev, err := trigger.BroadcastStart(ctx, requested)
		if err != nil {
			logger.Error("Could not start round", "err", err)
			return nil
		}
		logger.Info("Round started", "round", ev.RoundID)
	case "exit", "quit":
		return ErrQuit
	case "help":
		logger.Info("Commands: start [rock|paper|scissors], exit, quit")
	default:
		logger.Warn("Unknown command", "command", fields[0])
	}
	return nil
}
