package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/store"
)

// Frames lists and looks up archived frames.
type Frames interface {
	List() []store.Frame
	Get(id string) (store.Frame, bool)
}

// ArchiveHandler exposes the debug frame archive.
type ArchiveHandler struct {
	frames Frames
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(frames Frames) *ArchiveHandler {
	return &ArchiveHandler{frames: frames}
}

type listFramesResponse struct {
	Frames []store.Frame `json:"frames"`
}

// List handles GET /api/archive.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	frames := h.frames.List()
	if frames == nil {
		frames = []store.Frame{}
	}
	writeJSON(w, http.StatusOK, listFramesResponse{Frames: frames})
}

// Image handles GET /api/archive/{id}, serving the JPEG itself.
func (h *ArchiveHandler) Image(w http.ResponseWriter, r *http.Request) {
	f, ok := h.frames.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "frame not found")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, f.Path)
}
