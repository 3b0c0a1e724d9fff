package actuator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/protocol"
)

// Reconnect defaults.
const (
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = time.Second
)

const (
	readTimeout  = 120 * time.Second
	controlWrite = 10 * time.Second
)

// StartHandler receives round starts. It must not block.
type StartHandler interface {
	HandleStart(ev protocol.StartEvent) bool
}

// ClientOptions configures a Client.
type ClientOptions struct {
	Attempts int
	Delay    time.Duration
	Clock    quartz.Clock
	Logger   *log.Logger
}

// Client listens on the judge's push channel and forwards round starts.
type Client struct {
	url      string
	handler  StartHandler
	attempts int
	delay    time.Duration
	clock    quartz.Clock
	logger   *log.Logger
	dialer   *websocket.Dialer
}

// NewClient creates a Client for the judge at judgeURL (http, https, ws or
// wss; the /ws path is added when missing).
func NewClient(judgeURL string, handler StartHandler, opts ClientOptions) (*Client, error) {
	u, err := pushURL(judgeURL)
	if err != nil {
		return nil, err
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultReconnectAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultReconnectDelay
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Client{
		url:      u,
		handler:  handler,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		clock:    opts.Clock,
		logger:   opts.Logger,
		dialer:   websocket.DefaultDialer,
	}, nil
}

func pushURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid judge URL: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	}
	return u.String(), nil
}

// URL returns the push channel address.
func (c *Client) URL() string {
	return c.url
}

// Run stays connected until ctx is cancelled. After a dropped connection it
// waits Delay and redials; it gives up once Attempts dials in a row have
// failed.
func (c *Client) Run(ctx context.Context) error {
	failures := 0
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			if failures >= c.attempts {
				return fmt.Errorf("connect to judge after %d attempts: %w", failures, err)
			}
			c.logger.Warn("Connect failed, retrying", "attempt", failures, "err", err)
			if err := c.wait(ctx); err != nil {
				return nil
			}
			continue
		}

		failures = 0
		c.logger.Info("Connected to judge", "url", c.url)
		err = c.listen(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("Disconnected from judge", "err", err)
		if err := c.wait(ctx); err != nil {
			return nil
		}
	}
}

func (c *Client) wait(ctx context.Context) error {
	t := c.clock.NewTimer(c.delay, "client", "reconnect")
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) listen(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(controlWrite))
		conn.Close()
	})
	defer stop()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(controlWrite))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg []byte) {
	env, err := protocol.Decode(msg)
	if err != nil {
		c.logger.Warn("Bad message from judge", "err", err)
		return
	}

	switch env.Event {
	case protocol.EventStart:
		var ev protocol.StartEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			c.logger.Warn("Bad start event", "err", err)
			return
		}
		c.handler.HandleStart(ev)
	case protocol.EventResult:
		var ev protocol.ResultEvent
		if err := json.Unmarshal(env.Data, &ev); err == nil {
			c.logger.Debug("Result broadcast", "round", ev.RoundID, "result", ev.Result)
		}
	default:
		c.logger.Debug("Ignoring event", "event", env.Event)
	}
}
