// Package api provides the judge's HTTP handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/round"
)

// DefaultMaxUpload bounds the size of a submission body.
const DefaultMaxUpload = 8 << 20

// Rounds is the part of the orchestrator the handlers need.
type Rounds interface {
	BroadcastStart(ctx context.Context, requested string) (protocol.StartEvent, error)
	Submit(ctx context.Context, sub round.Submission) (round.Outcome, error)
	Round(id string) (round.Round, bool)
}

// RoundHandler serves round triggering, submission and lookup.
type RoundHandler struct {
	rounds    Rounds
	logger    *log.Logger
	maxUpload int64
}

// NewRoundHandler creates a RoundHandler. maxUpload <= 0 selects DefaultMaxUpload.
func NewRoundHandler(rounds Rounds, logger *log.Logger, maxUpload int64) *RoundHandler {
	if logger == nil {
		logger = log.Default()
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &RoundHandler{rounds: rounds, logger: logger, maxUpload: maxUpload}
}

// Trigger handles GET|POST /trigger_start. An optional "gesture" query or
// form value asks the hand for a specific move.
func (h *RoundHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ev, err := h.rounds.BroadcastStart(r.Context(), r.FormValue("gesture"))
	if err != nil {
		if errors.Is(err, round.ErrInvalidGesture) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to start round", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start round")
		return
	}

	writeJSON(w, http.StatusOK, protocol.TriggerResponse{Status: "ok", RoundID: ev.RoundID})
}

// Submit handles POST /submit.
func (h *RoundHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	sub := round.Submission{
		RoundID: r.FormValue(protocol.FieldRoundID),
		Gesture: r.FormValue(protocol.FieldGesture),
	}

	image, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub.Image = image

	if raw := r.FormValue(protocol.FieldLandmarks); raw != "" {
		var hand detector.HandLandmarks
		if err := json.Unmarshal([]byte(raw), &hand); err != nil {
			writeError(w, http.StatusBadRequest, "invalid landmarks: "+err.Error())
			return
		}
		sub.Landmarks = &hand
	}

	out, err := h.rounds.Submit(r.Context(), sub)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Submission failed", "round", sub.RoundID, "error", err)
		} else {
			h.logger.Warn("Submission rejected", "round", sub.RoundID, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, protocol.SubmitResponse{
		PlayerMove: out.PlayerMove.String(),
		EspMove:    out.EspMove.String(),
		Result:     out.Result.String(),
	})
}

// Get handles GET /api/rounds/{id}.
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rd, ok := h.rounds.Round(id)
	if !ok {
		writeError(w, http.StatusNotFound, "round not found")
		return
	}

	writeJSON(w, http.StatusOK, rd)
}

func readImage(r *http.Request) ([]byte, error) {
	f, _, err := r.FormFile(protocol.FieldImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, round.ErrInvalidGesture), errors.Is(err, round.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, round.ErrRoundClosed):
		return http.StatusConflict
	case errors.Is(err, round.ErrExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
