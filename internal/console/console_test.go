package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
)

type fakeTrigger struct {
	mu        sync.Mutex
	requested []string
	err       error
}

func (f *fakeTrigger) BroadcastStart(ctx context.Context, requested string) (protocol.StartEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, requested)
	return protocol.StartEvent{RoundID: "r"}, f.err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   error
		wantCalls []string
	}{
		{
			name:      "start then EOF",
			input:     "start\n",
			wantCalls: []string{""},
		},
		{
			name:      "trimmed and case-insensitive",
			input:     "  START  \n\tStart Paper\n",
			wantCalls: []string{"", "paper"},
		},
		{
			name:    "exit stops reading",
			input:   "exit\nstart\n",
			wantErr: ErrQuit,
		},
		{
			name:      "quit",
			input:     "start\n QUIT \n",
			wantErr:   ErrQuit,
			wantCalls: []string{""},
		},
		{
			name:  "blank and unknown lines ignored",
			input: "\n   \ndance\nhelp\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := &fakeTrigger{}
			err := Run(context.Background(), strings.NewReader(tt.input), trigger, log.New(io.Discard))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, trigger.requested)
		})
	}
}

func TestRun_TriggerErrorKeepsGoing(t *testing.T) {
	trigger := &fakeTrigger{err: errors.New("unknown gesture")}
	err := Run(context.Background(), strings.NewReader("start lizard\nstart\n"), trigger, log.New(io.Discard))

	require.NoError(t, err)
	assert.Len(t, trigger.requested, 2)
}

func TestRun_StopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, pr, &fakeTrigger{}, log.New(io.Discard)) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
