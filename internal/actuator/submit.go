package actuator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
)

// DefaultSubmitTimeout bounds one upload to the judge.
const DefaultSubmitTimeout = 5 * time.Second

// Submission is what the hand reports after a round.
type Submission struct {
	RoundID string
	Gesture gesture.Gesture
	Image   []byte
}

// HTTPSubmitter posts submissions to the judge as multipart forms.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter targets judgeURL's /submit endpoint.
func NewHTTPSubmitter(judgeURL string, timeout time.Duration) *HTTPSubmitter {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &HTTPSubmitter{
		endpoint: strings.TrimRight(judgeURL, "/") + "/submit",
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit uploads sub and returns the judge's verdict. Every failure wraps
// ErrSubmit.
func (s *HTTPSubmitter) Submit(ctx context.Context, sub Submission) (protocol.SubmitResponse, error) {
	var resp protocol.SubmitResponse

	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return resp, fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return resp, fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	req.Header.Set("Content-Type", contentType)

	res, err := s.client.Do(req)
	if err != nil {
		return resp, fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var e protocol.ErrorResponse
		if json.NewDecoder(res.Body).Decode(&e) != nil || e.Error == "" {
			e.Error = http.StatusText(res.StatusCode)
		}
		return resp, fmt.Errorf("%w: judge returned %d: %s", ErrSubmit, res.StatusCode, e.Error)
	}

	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return resp, fmt.Errorf("%w: decode response: %w", ErrSubmit, err)
	}
	return resp, nil
}

func encodeSubmission(sub Submission) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(protocol.FieldGesture, sub.Gesture.String()); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(protocol.FieldRoundID, sub.RoundID); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile(protocol.FieldImage, "frame.jpg")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sub.Image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
