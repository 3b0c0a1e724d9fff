// Package actuator runs the robot hand's side of a round: pose a gesture,
// photograph the player and hand the frame to the judge.
package actuator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/capture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
)

// DefaultRoundTimeout force-releases a round that never finishes.
const DefaultRoundTimeout = 15 * time.Second

var (
	// ErrCapture is returned when no frame could be taken.
	ErrCapture = errors.New("frame capture failed")
	// ErrSubmit is returned when the judge could not be reached or refused
	// the submission.
	ErrSubmit = errors.New("submission failed")
)

// Performer poses a gesture.
type Performer interface {
	Perform(ctx context.Context, g gesture.Gesture) error
}

// Submitter delivers a round's frame to the judge.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (protocol.SubmitResponse, error)
}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	Context      context.Context
	Clock        quartz.Clock
	Logger       *log.Logger
	RoundTimeout time.Duration
	// Choose picks the gesture when the judge did not request one.
	Choose func() gesture.Gesture
	// OnResult is called with every verdict the judge returns.
	OnResult func(roundID string, resp protocol.SubmitResponse)
}

// Controller plays at most one round at a time. The busy guard holds the
// token of the round in flight, or zero when idle.
type Controller struct {
	hand      Performer
	frames    capture.FrameSource
	submitter Submitter

	ctx      context.Context
	clock    quartz.Clock
	logger   *log.Logger
	timeout  time.Duration
	choose   func() gesture.Gesture
	onResult func(string, protocol.SubmitResponse)

	busy   atomic.Uint64
	tokens atomic.Uint64
	wg     sync.WaitGroup
}

// NewController creates a Controller.
func NewController(hand Performer, frames capture.FrameSource, submitter Submitter, opts Options) *Controller {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.RoundTimeout <= 0 {
		opts.RoundTimeout = DefaultRoundTimeout
	}
	if opts.Choose == nil {
		opts.Choose = RandomGesture
	}

	return &Controller{
		hand:      hand,
		frames:    frames,
		submitter: submitter,
		ctx:       opts.Context,
		clock:     opts.Clock,
		logger:    opts.Logger,
		timeout:   opts.RoundTimeout,
		choose:    opts.Choose,
		onResult:  opts.OnResult,
	}
}

// RandomGesture picks rock, paper or scissors uniformly.
func RandomGesture() gesture.Gesture {
	return gesture.All[rand.IntN(len(gesture.All))]
}

// HandleStart claims the hand for ev and plays the round in the background.
// It returns false without blocking when another round is in flight.
func (c *Controller) HandleStart(ev protocol.StartEvent) bool {
	token := c.tokens.Add(1)
	if !c.busy.CompareAndSwap(0, token) {
		c.logger.Info("Hand busy, start ignored", "round", ev.RoundID)
		return false
	}

	deadline := c.clock.AfterFunc(c.timeout, func() {
		if c.release(token) {
			c.logger.Warn("TimedOut", "round", ev.RoundID, "after", c.timeout)
		}
	}, "actuator", "deadline")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer deadline.Stop()
		defer c.release(token)
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("Round panicked", "round", ev.RoundID, "panic", r)
			}
		}()

		if err := c.play(ev); err != nil {
			if errors.Is(err, gesture.ErrUnknownGesture) {
				c.logger.Warn("Round skipped", "round", ev.RoundID, "err", err)
				return
			}
			c.logger.Error("Round failed", "round", ev.RoundID, "err", err)
		}
	}()
	return true
}

func (c *Controller) play(ev protocol.StartEvent) error {
	g := c.choose()
	if ev.Gesture != "" {
		var err error
		if g, err = gesture.Parse(ev.Gesture); err != nil {
			return err
		}
	}
	c.logger.Info("Round started", "round", ev.RoundID, "gesture", g)

	if err := c.hand.Perform(c.ctx, g); err != nil {
		c.logger.Warn("Gesture incomplete", "round", ev.RoundID, "err", err)
	}

	frame, err := c.frames.Capture(c.ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}

	resp, err := c.submitter.Submit(c.ctx, Submission{RoundID: ev.RoundID, Gesture: g, Image: frame})
	if err != nil {
		return err
	}

	c.logger.Info("Round judged", "round", ev.RoundID,
		"player", resp.PlayerMove, "hand", resp.EspMove, "result", resp.Result)
	if c.onResult != nil {
		c.onResult(ev.RoundID, resp)
	}
	return nil
}

// release frees the guard if token still holds it.
func (c *Controller) release(token uint64) bool {
	return c.busy.CompareAndSwap(token, 0)
}

// Busy reports whether a round holds the hand.
func (c *Controller) Busy() bool {
	return c.busy.Load() != 0
}

// Wait blocks until every round goroutine has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}
