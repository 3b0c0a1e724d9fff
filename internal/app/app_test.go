package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/config"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/detector"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/round"
	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/store"
)

func testSettings(t *testing.T) config.Judge {
	dir := t.TempDir()
	return config.Judge{
		Addr:           "127.0.0.1:0",
		DataDir:        dir,
		ArchiveDir:     filepath.Join(dir, "debug_images"),
		ArchiveMax:     5,
		RoundRegistry:  32,
		MinConfidence:  0.5,
		MaxUploadMB:    10,
		Console:        true,
		DetectorScript: filepath.Join(dir, "missing.py"),
	}
}

func jpegFrame(t *testing.T) []byte {
	t.Helper()
	mat := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	require.NoError(t, err)
	defer buf.Close()
	return bytes.Clone(buf.GetBytes())
}

func TestNew_FallsBackToMockDetector(t *testing.T) {
	j, err := New(Config{Settings: testSettings(t), Logger: log.New(io.Discard)})
	require.NoError(t, err)
	defer j.Close()

	_, ok := j.detector.(*detector.MockDetector)
	assert.True(t, ok, "detector = %T", j.detector)
}

func TestNew_DataDirIsAFile(t *testing.T) {
	s := testSettings(t)
	file := filepath.Join(s.DataDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	s.DataDir = file

	_, err := New(Config{Settings: s, Logger: log.New(io.Discard)})
	assert.Error(t, err)
}

func TestJudge_ConsoleRound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.PaperLandmarks()})

	judged := make(chan round.Round, 1)
	in, operator := io.Pipe()

	j, err := New(Config{
		Settings: testSettings(t),
		Logger:   log.New(io.Discard),
		Detector: mock,
		Console:  in,
		OnJudged: func(r round.Round) { judged <- r },
	})
	require.NoError(t, err)
	defer j.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	done := make(chan error, 1)
	go func() { done <- j.Serve(context.Background(), ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var h struct{ Actuators int }
		json.NewDecoder(resp.Body).Decode(&h)
		return h.Actuators == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Operator starts a round asking for paper.
	_, err = io.WriteString(operator, "start Paper\n")
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	env, err := protocol.Decode(msg)
	require.NoError(t, err)
	require.Equal(t, protocol.EventStart, env.Event)
	var start protocol.StartEvent
	require.NoError(t, json.Unmarshal(env.Data, &start))
	assert.Equal(t, "paper", start.Gesture)

	// The hand submits its frame.
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField(protocol.FieldGesture, start.Gesture)
	w.WriteField(protocol.FieldRoundID, start.RoundID)
	part, _ := w.CreateFormFile(protocol.FieldImage, "frame.jpg")
	part.Write(jpegFrame(t))
	w.Close()

	resp, err := http.Post(base+"/submit", w.FormDataContentType(), &body)
	require.NoError(t, err)
	var result protocol.SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	assert.Equal(t, "draw", result.Result)

	select {
	case r := <-judged:
		assert.Equal(t, start.RoundID, r.ID)
	case <-time.After(time.Second):
		t.Fatal("OnJudged not called")
	}

	// Raw and annotated frames were archived.
	resp, err = http.Get(base + "/api/archive")
	require.NoError(t, err)
	var listing struct {
		Frames []store.Frame `json:"frames"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	require.Len(t, listing.Frames, 2)
	for _, f := range listing.Frames {
		assert.Equal(t, start.RoundID, f.RoundID)
		assert.FileExists(t, f.Path)
	}

	// Quitting stops the judge cleanly.
	_, err = io.WriteString(operator, "quit\n")
	require.NoError(t, err)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("judge did not stop")
	}
}
