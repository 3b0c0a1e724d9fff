package actuator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/gesture"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
)

func TestHTTPSubmitter_Submit(t *testing.T) {
	var gotPath, gotMove, gotRound string
	var gotImage []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotMove = r.FormValue(protocol.FieldGesture)
		gotRound = r.FormValue(protocol.FieldRoundID)
		f, _, err := r.FormFile(protocol.FieldImage)
		require.NoError(t, err)
		gotImage, _ = io.ReadAll(f)

		json.NewEncoder(w).Encode(protocol.SubmitResponse{PlayerMove: "scissors", EspMove: "rock", Result: "lose"})
	}))
	defer ts.Close()

	s := NewHTTPSubmitter(ts.URL+"/", 0)
	resp, err := s.Submit(context.Background(), Submission{RoundID: "42", Gesture: gesture.Rock, Image: []byte("jpeg")})
	require.NoError(t, err)

	assert.Equal(t, "/submit", gotPath)
	assert.Equal(t, "rock", gotMove)
	assert.Equal(t, "42", gotRound)
	assert.Equal(t, []byte("jpeg"), gotImage)
	assert.Equal(t, protocol.SubmitResponse{PlayerMove: "scissors", EspMove: "rock", Result: "lose"}, resp)
}

func TestHTTPSubmitter_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(protocol.ErrorResponse{Error: "decode fail"})
	}))
	defer ts.Close()

	_, err := NewHTTPSubmitter(ts.URL, 0).Submit(context.Background(), Submission{RoundID: "1", Gesture: gesture.Paper})
	require.ErrorIs(t, err, ErrSubmit)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "decode fail")
}

func TestHTTPSubmitter_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewHTTPSubmitter(url, 0).Submit(context.Background(), Submission{RoundID: "1", Gesture: gesture.Paper})
	assert.ErrorIs(t, err, ErrSubmit)
}
