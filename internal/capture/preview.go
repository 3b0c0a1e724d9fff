package capture

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPreviewInterval gives roughly 15 frames per second.
const DefaultPreviewInterval = 66 * time.Millisecond

// PreviewHandler serves frames from a FrameSource as an MJPEG stream, so the
// camera can be aimed before a game.
type PreviewHandler struct {
	source   FrameSource
	interval time.Duration
	logger   *log.Logger
}

// NewPreviewHandler creates a PreviewHandler.
func NewPreviewHandler(source FrameSource, interval time.Duration, logger *log.Logger) *PreviewHandler {
	if interval <= 0 {
		interval = DefaultPreviewInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PreviewHandler{source: source, interval: interval, logger: logger}
}

func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		frame, err := h.source.Capture(r.Context())
		if err == nil {
			fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame))
			if _, err := w.Write(frame); err != nil {
				return
			}
			fmt.Fprint(w, "\r\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		} else if r.Context().Err() == nil {
			h.logger.Debug("Preview capture failed", "err", err)
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
