// Package archive keeps a small rolling set of submitted frames on disk,
// raw and with the detected landmarks drawn on top, for debugging the judge.
package archive

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/ring"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/store"
)

// DefaultCapacity is how many frames of each kind are kept.
const DefaultCapacity = 5

// ErrWrite is returned when a frame cannot be written to disk.
var ErrWrite = errors.New("write frame")

// Index persists archive entries so retention survives restarts.
// *store.FrameRepository satisfies it.
type Index interface {
	Create(f *store.Frame) error
	ListByKind(kind store.FrameKind) ([]*store.Frame, error)
	Delete(id string) error
}

var (
	boneColor  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	jointColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	labelColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// Archive is a bounded, concurrency-safe frame archive.
type Archive struct {
	mu     sync.Mutex
	dir    string
	index  Index
	rings  map[store.FrameKind]*ring.Ring[store.Frame]
	logger *log.Logger
	now    func() time.Time
}

// New creates the archive directories under dir and restores entries from
// index. index may be nil, in which case retention is in memory only.
func New(dir string, capacity int, index Index, logger *log.Logger) (*Archive, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	a := &Archive{
		dir:    dir,
		index:  index,
		rings:  make(map[store.FrameKind]*ring.Ring[store.Frame]),
		logger: logger,
		now:    time.Now,
	}

	for _, kind := range []store.FrameKind{store.FrameRaw, store.FrameProcessed} {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
		a.rings[kind] = ring.New[store.Frame](capacity)
	}

	if err := a.restore(); err != nil {
		return nil, fmt.Errorf("restore archive: %w", err)
	}

	return a, nil
}

// RecordRaw stores the frame as submitted.
func (a *Archive) RecordRaw(roundID string, frame gocv.Mat) error {
	return a.write(store.FrameRaw, roundID, "", frame)
}

// RecordAnnotated stores a copy of frame with the hand skeleton and the
// classified gesture drawn on it. hand may be nil.
func (a *Archive) RecordAnnotated(roundID string, frame gocv.Mat, hand *detector.HandLandmarks) error {
	annotated := frame.Clone()
	defer annotated.Close()

	move := gesture.FromHand(hand)
	if hand != nil {
		drawHand(&annotated, hand)
	}
	gocv.PutText(&annotated, move.String(), image.Pt(10, 30), gocv.FontHersheySimplex, 0.9, labelColor, 2)

	return a.write(store.FrameProcessed, roundID, move.String(), annotated)
}

// List returns retained frames, raw first, each kind oldest first.
func (a *Archive) List() []store.Frame {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.rings[store.FrameRaw].Items()
	return append(out, a.rings[store.FrameProcessed].Items()...)
}

// Get returns a retained frame by id.
func (a *Archive) Get(id string) (store.Frame, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	match := func(f store.Frame) bool { return f.ID == id }
	for _, r := range a.rings {
		if f, ok := r.Find(match); ok {
			return f, true
		}
	}
	return store.Frame{}, false
}

func (a *Archive) write(kind store.FrameKind, roundID, move string, frame gocv.Mat) error {
	if frame.Empty() {
		return fmt.Errorf("%w: empty frame", ErrWrite)
	}

	now := a.now()
	id := uuid.New().String()
	name := fmt.Sprintf("%s_%s.jpg", now.Format("20060102-150405.000"), id[:8])
	path := filepath.Join(a.dir, string(kind), name)

	if ok := gocv.IMWrite(path, frame); !ok {
		return fmt.Errorf("%w: %s", ErrWrite, path)
	}

	entry := store.Frame{
		ID:         id,
		RoundID:    roundID,
		Kind:       kind,
		Path:       path,
		PlayerMove: move,
		CreatedAt:  now,
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.index != nil {
		if err := a.index.Create(&entry); err != nil {
			os.Remove(path)
			return fmt.Errorf("index frame: %w", err)
		}
	}

	if evicted, ok := a.rings[kind].Push(entry); ok {
		a.remove(evicted)
	}

	if a.logger != nil {
		a.logger.Debug("Archived frame", "kind", kind, "round", roundID, "path", path)
	}

	return nil
}

// remove deletes an evicted entry from disk and the index. Callers hold mu.
func (a *Archive) remove(f store.Frame) {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) && a.logger != nil {
		a.logger.Warn("Failed to delete archived frame", "path", f.Path, "error", err)
	}
	if a.index != nil {
		if err := a.index.Delete(f.ID); err != nil && !errors.Is(err, store.ErrNotFound) && a.logger != nil {
			a.logger.Warn("Failed to drop archive index entry", "id", f.ID, "error", err)
		}
	}
}

func (a *Archive) restore() error {
	if a.index == nil {
		return nil
	}

	for kind, r := range a.rings {
		frames, err := a.index.ListByKind(kind)
		if err != nil {
			return err
		}
		for _, f := range frames {
			if _, err := os.Stat(f.Path); err != nil {
				// file vanished while we were down
				_ = a.index.Delete(f.ID)
				continue
			}
			if evicted, ok := r.Push(*f); ok {
				a.remove(evicted)
			}
		}
	}

	return nil
}

func drawHand(img *gocv.Mat, hand *detector.HandLandmarks) {
	w, h := float64(img.Cols()), float64(img.Rows())
	pt := func(i int) image.Point {
		p := hand.Points[i]
		return image.Pt(int(p.X*w), int(p.Y*h))
	}

	for _, c := range detector.Connections {
		gocv.Line(img, pt(c[0]), pt(c[1]), boneColor, 2)
	}
	for i := range hand.Points {
		gocv.Circle(img, pt(i), 4, jointColor, -1)
	}
}
