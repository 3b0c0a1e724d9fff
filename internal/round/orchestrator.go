package round

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/metrics"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/ring"
)

// DefaultCapacity is how many rounds the registry remembers.
const DefaultCapacity = 32

// Broadcaster pushes an event to every connected hand.
type Broadcaster interface {
	Broadcast(event string, data any) error
}

// Analyzer turns a submitted image into the first detected hand, or nil.
type Analyzer interface {
	Analyze(ctx context.Context, roundID string, image []byte) (*detector.HandLandmarks, error)
}

// Options configures an Orchestrator. Zero values select defaults.
type Options struct {
	Capacity int
	Clock    quartz.Clock
	Metrics  *metrics.Metrics
	Logger   *log.Logger
	NewID    func() string

	// OnJudged is called after each judged round, outside any lock.
	OnJudged func(Round)
}

// Orchestrator owns round identity and state.
type Orchestrator struct {
	broadcaster Broadcaster
	analyzer    Analyzer
	clock       quartz.Clock
	metrics     *metrics.Metrics
	logger      *log.Logger
	newID       func() string
	onJudged    func(Round)

	mu     sync.Mutex
	rounds map[string]*Round
	order  *ring.Ring[string]
	latest string
}

// New creates an Orchestrator.
func New(b Broadcaster, a Analyzer, opts Options) *Orchestrator {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Orchestrator{
		broadcaster: b,
		analyzer:    a,
		clock:       opts.Clock,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		newID:       opts.NewID,
		onJudged:    opts.OnJudged,
		rounds:      make(map[string]*Round),
		order:       ring.New[string](opts.Capacity),
	}
}

// BroadcastStart opens a new round and announces it. requested, when not
// empty, asks the hand to play that gesture. Delivery is not acknowledged.
func (o *Orchestrator) BroadcastStart(ctx context.Context, requested string) (protocol.StartEvent, error) {
	if requested != "" {
		g, err := gesture.Parse(requested)
		if err != nil {
			return protocol.StartEvent{}, fmt.Errorf("%w: %v", ErrInvalidGesture, err)
		}
		requested = g.String()
	}

	now := o.clock.Now()
	r := &Round{
		ID:        o.newID(),
		State:     Started,
		StartedAt: now,
	}

	o.mu.Lock()
	o.track(r)
	o.mu.Unlock()

	ev := protocol.StartEvent{
		RoundID:   r.ID,
		Timestamp: protocol.Timestamp(now),
		Gesture:   requested,
	}

	if err := o.broadcaster.Broadcast(protocol.EventStart, ev); err != nil {
		return ev, fmt.Errorf("broadcast start: %w", err)
	}

	o.metrics.IncRoundsStarted()
	o.logger.Info("Round started", "round", r.ID, "requested", requested)

	return ev, nil
}

// Submit judges a hand's submission for a round.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	began := o.clock.Now()

	espMove, err := gesture.Parse(sub.Gesture)
	if err != nil {
		o.metrics.IncError("invalid_gesture")
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidGesture, err)
	}

	if len(sub.Image) == 0 && sub.Landmarks == nil {
		o.metrics.IncError("decode")
		return Outcome{}, fmt.Errorf("%w: no image or landmarks", ErrDecode)
	}

	if sub.RoundID == "" {
		sub.RoundID = o.newID()
	}

	r, err := o.claim(sub.RoundID, espMove)
	if err != nil {
		o.metrics.IncError("closed")
		return Outcome{}, err
	}

	hand, err := o.extract(ctx, sub)
	if err != nil {
		o.release(r)
		if errors.Is(err, ErrDecode) {
			o.metrics.IncError("decode")
			return Outcome{}, err
		}
		o.metrics.IncError("extraction")
		if !errors.Is(err, ErrExtraction) {
			err = fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return Outcome{}, err
	}

	human := gesture.FromHand(hand)
	result := gesture.Judge(human, espMove)

	o.mu.Lock()
	r.HumanGesture = human
	r.Result = result
	r.State = Judged
	r.JudgedAt = o.clock.Now()
	o.latest = r.ID
	snapshot := *r
	o.mu.Unlock()

	out := Outcome{
		RoundID:    r.ID,
		PlayerMove: human,
		EspMove:    espMove,
		Result:     result,
	}

	o.logger.Info("Round judged", "round", r.ID, "player", human, "robot", espMove, "result", result)
	o.metrics.ObserveSubmission(result.String(), o.clock.Since(began))

	if err := o.broadcaster.Broadcast(protocol.EventResult, protocol.ResultEvent{
		RoundID:    out.RoundID,
		PlayerMove: human.String(),
		EspMove:    espMove.String(),
		Result:     result.String(),
	}); err != nil {
		o.logger.Warn("Failed to broadcast result", "round", r.ID, "error", err)
	}

	if o.onJudged != nil {
		o.onJudged(snapshot)
	}

	return out, nil
}

// Round returns a snapshot of a remembered round.
func (o *Orchestrator) Round(id string) (Round, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r, ok := o.rounds[id]
	if !ok {
		return Round{}, false
	}
	return *r, true
}

// Latest returns the most recently judged round still remembered.
func (o *Orchestrator) Latest() (Round, bool) {
	o.mu.Lock()
	id := o.latest
	o.mu.Unlock()

	if id == "" {
		return Round{}, false
	}
	return o.Round(id)
}

// claim moves a round to Submitted. Rounds this judge never announced, for
// example after a restart, are adopted.
func (o *Orchestrator) claim(id string, espMove gesture.Gesture) (*Round, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r, ok := o.rounds[id]
	if !ok {
		o.logger.Warn("Submission for unknown round", "round", id)
		r = &Round{ID: id, State: Started, StartedAt: o.clock.Now()}
		o.track(r)
	}

	switch r.State {
	case Submitted, Judged:
		return nil, fmt.Errorf("%w: %s is %s", ErrRoundClosed, id, r.State)
	}

	r.State = Submitted
	r.ActuatorGesture = espMove
	return r, nil
}

// release returns a round whose submission failed to Started.
func (o *Orchestrator) release(r *Round) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if r.State == Submitted {
		r.State = Started
		r.ActuatorGesture = ""
	}
}

func (o *Orchestrator) extract(ctx context.Context, sub Submission) (*detector.HandLandmarks, error) {
	if sub.Landmarks != nil {
		return sub.Landmarks, nil
	}
	return o.analyzer.Analyze(ctx, sub.RoundID, sub.Image)
}

// track registers r, forgetting the oldest round when full. Callers hold mu.
func (o *Orchestrator) track(r *Round) {
	if old, ok := o.order.Push(r.ID); ok {
		delete(o.rounds, old)
		if o.latest == old {
			o.latest = ""
		}
	}
	o.rounds[r.ID] = r
}
