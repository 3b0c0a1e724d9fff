package store

import (
	"database/sql"
	"errors"
	"time"
)

// FrameKind distinguishes the two archived variants of a submitted frame.
type FrameKind string

const (
	// FrameRaw is the frame exactly as submitted.
	FrameRaw FrameKind = "raw_input"
	// FrameProcessed is the frame with the landmark skeleton drawn on it.
	FrameProcessed FrameKind = "processed"
)

// Frame is an archived image on disk.
type Frame struct {
	ID         string    `json:"id"`
	RoundID    string    `json:"round_id"`
	Kind       FrameKind `json:"kind"`
	Path       string    `json:"path"`
	PlayerMove string    `json:"player_move,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FrameRepository provides CRUD operations for archived frames.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Create inserts a frame record. CreatedAt is filled in when zero.
func (r *FrameRepository) Create(f *Frame) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO archive_frames (id, round_id, kind, path, player_move, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.RoundID, string(f.Kind), f.Path, f.PlayerMove, f.CreatedAt,
	)
	return err
}

// GetByID retrieves a frame by its ID.
func (r *FrameRepository) GetByID(id string) (*Frame, error) {
	f := &Frame{}
	var kind string

	err := r.db.QueryRow(
		`SELECT id, round_id, kind, path, player_move, created_at
		 FROM archive_frames WHERE id = ?`,
		id,
	).Scan(&f.ID, &f.RoundID, &kind, &f.Path, &f.PlayerMove, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f.Kind = FrameKind(kind)
	return f, nil
}

// ListByKind returns frames of one kind, oldest first.
func (r *FrameRepository) ListByKind(kind FrameKind) ([]*Frame, error) {
	rows, err := r.db.Query(
		`SELECT id, round_id, kind, path, player_move, created_at
		 FROM archive_frames WHERE kind = ?
		 ORDER BY created_at ASC, rowid ASC`,
		string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*Frame
	for rows.Next() {
		f := &Frame{}
		var k string
		if err := rows.Scan(&f.ID, &f.RoundID, &k, &f.Path, &f.PlayerMove, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Kind = FrameKind(k)
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// Delete removes a frame record by ID.
func (r *FrameRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM archive_frames WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
