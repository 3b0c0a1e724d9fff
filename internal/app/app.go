// Package app wires the judge together: archive index, frame archive, hand
// detector, round orchestrator, HTTP/WebSocket server and operator console.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/archive"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/config"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/console"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/metrics"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/round"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/server"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/store"
)

// Config holds what the judge needs besides its environment settings.
type Config struct {
	Settings config.Judge
	Logger   *log.Logger
	Clock    quartz.Clock

	// Detector overrides the MediaPipe detector.
	Detector detector.Detector

	// Console is read for operator commands when Settings.Console is set.
	Console io.Reader

	// OnJudged is called after every judged round.
	OnJudged func(round.Round)
}

// Judge is the assembled judge process.
type Judge struct {
	settings config.Judge
	logger   *log.Logger
	console  io.Reader
	onJudged func(round.Round)

	store    *store.Store
	archive  *archive.Archive
	detector detector.Detector
	metrics  *metrics.Metrics
	rounds   *round.Orchestrator
	server   *server.Server
}

// New opens the archive index and builds every component. Failing to open
// the index or the archive directory is fatal.
func New(cfg Config) (*Judge, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := cfg.Settings

	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(s.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open archive index: %w", err)
	}

	arch, err := archive.New(s.ArchiveDir, s.ArchiveMax, st.Frames(), cfg.Logger.WithPrefix("archive"))
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open archive: %w", err)
	}

	det := cfg.Detector
	if det == nil {
		det = newDetector(s, cfg.Logger)
	}

	j := &Judge{
		settings: s,
		logger:   cfg.Logger,
		console:  cfg.Console,
		onJudged: cfg.OnJudged,
		store:    st,
		archive:  arch,
		detector: det,
		metrics:  metrics.New(),
	}

	hub := server.NewHub(cfg.Logger.WithPrefix("ws"), j.metrics)
	analyzer := detector.NewAnalyzer(det, arch, cfg.Logger.WithPrefix("detector"))

	j.rounds = round.New(hub, analyzer, round.Options{
		Capacity: s.RoundRegistry,
		Clock:    cfg.Clock,
		Metrics:  j.metrics,
		Logger:   cfg.Logger.WithPrefix("round"),
		OnJudged: j.judged,
	})

	j.server = server.New(server.Config{
		Rounds:    j.rounds,
		Hub:       hub,
		Archive:   arch,
		Metrics:   j.metrics,
		Logger:    cfg.Logger,
		MaxUpload: s.MaxUploadBytes(),
	})

	return j, nil
}

// newDetector prefers MediaPipe and falls back to a detector that never sees
// a hand, so the judge still answers with no_player_detected.
func newDetector(s config.Judge, logger *log.Logger) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MinConfidence = s.MinConfidence
	dc.ScriptPath = s.DetectorScript
	dc.Python = s.DetectorPython

	mp, err := detector.NewMediaPipeDetector(dc, logger.WithPrefix("mediapipe"))
	if err != nil {
		logger.Warn("MediaPipe not available, using mock detector", "err", err)
		return detector.NewMockDetector()
	}
	logger.Info("Using MediaPipe hand detection")
	return mp
}

func (j *Judge) judged(r round.Round) {
	j.logger.Info("Result",
		"round", r.ID, "player", r.HumanGesture, "hand", r.ActuatorGesture, "result", r.Result)
	if j.onJudged != nil {
		j.onJudged(r)
	}
}

// Rounds returns the round orchestrator.
func (j *Judge) Rounds() *round.Orchestrator {
	return j.rounds
}

// Handler returns the judge's HTTP handler.
func (j *Judge) Handler() http.Handler {
	return j.server
}

// Run listens on the configured address. See Serve.
func (j *Judge) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", j.settings.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", j.settings.Addr, err)
	}
	return j.Serve(ctx, ln)
}

// Serve runs the server and the console until ctx is cancelled or the
// operator quits.
func (j *Judge) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return j.server.Serve(ctx, ln)
	})

	if j.settings.Console && j.console != nil {
		g.Go(func() error {
			j.logger.Info("Type 'start' to begin a round, 'exit' to quit")
			return console.Run(ctx, j.console, j.rounds, j.logger)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, console.ErrQuit) {
		return err
	}
	return nil
}

// Close releases the detector and the archive index.
func (j *Judge) Close() error {
	return errors.Join(j.detector.Close(), j.store.Close())
}
