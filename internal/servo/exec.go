package servo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single helper invocation.
const DefaultTimeout = 2 * time.Second

// waitDelay caps how long output pipes are drained after a kill.
const waitDelay = 500 * time.Millisecond

// ExecDriver runs a helper executable once per command. The helper reads a
// Request from stdin and answers with a Response on stdout.
type ExecDriver struct {
	path    string
	timeout time.Duration
}

// NewExecDriver resolves path and returns a driver for it. A helper that
// cannot be found yields ErrHardwareUnavailable.
func NewExecDriver(path string, timeout time.Duration) (*ExecDriver, error) {
	if path == "" {
		return nil, fmt.Errorf("no helper configured: %w", ErrHardwareUnavailable)
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("helper %s: %w", path, errors.Join(ErrHardwareUnavailable, err))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecDriver{path: resolved, timeout: timeout}, nil
}

func (d *ExecDriver) SetAngle(ctx context.Context, channel, angle int) error {
	if !ValidChannel(channel) {
		return fmt.Errorf("channel %d: %w", channel, ErrChannelRange)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	reqJSON, err := json.Marshal(Request{Channel: channel, Angle: Clamp(angle)})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, d.path)
	cmd.Stdin = bytes.NewReader(reqJSON)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("servo helper timeout after %s", d.timeout)
	}
	if err != nil {
		if msg := stderr.String(); msg != "" {
			return fmt.Errorf("servo helper failed: %w, stderr: %s", err, msg)
		}
		return fmt.Errorf("servo helper failed: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return fmt.Errorf("parse helper response: %w, stdout: %s", err, stdout.String())
	}
	if !resp.Success {
		return fmt.Errorf("servo helper: %s", resp.Error)
	}
	return nil
}

// Open returns an ExecDriver for path, or a SimDriver when the helper is
// unavailable.
func Open(path string, timeout time.Duration, logger *log.Logger) Driver {
	if logger == nil {
		logger = log.Default()
	}
	d, err := NewExecDriver(path, timeout)
	if err != nil {
		logger.Warn("Servo helper unavailable, simulating", "err", err)
		return NewSimDriver(logger)
	}
	logger.Info("Servo helper ready", "path", d.path)
	return d
}
