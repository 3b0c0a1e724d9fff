// Package protocol defines the messages exchanged between the judge and
// the robot hand.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Push channel event names.
const (
	EventStart  = "start"
	EventResult = "result"
)

// Multipart form fields of a submission.
const (
	FieldImage     = "image"
	FieldGesture   = "esp_move"
	FieldRoundID   = "round_id"
	FieldLandmarks = "landmarks"
)

// Envelope wraps every push channel message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// StartEvent announces a new round. Gesture optionally asks the hand to play
// a specific move instead of a random one.
type StartEvent struct {
	RoundID   string  `json:"round_id"`
	Timestamp float64 `json:"timestamp"`
	Gesture   string  `json:"gesture,omitempty"`
}

// Time returns the event timestamp as a time.Time.
func (e StartEvent) Time() time.Time {
	sec := int64(e.Timestamp)
	nsec := int64((e.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// Timestamp converts t to fractional Unix seconds.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// ResultEvent is rebroadcast after a round is judged.
type ResultEvent struct {
	RoundID    string `json:"round_id"`
	PlayerMove string `json:"player_move"`
	EspMove    string `json:"esp_move"`
	Result     string `json:"result"`
}

// SubmitResponse is the body of a successful submission.
type SubmitResponse struct {
	PlayerMove string `json:"player_move"`
	EspMove    string `json:"esp_move"`
	Result     string `json:"result"`
}

// TriggerResponse answers a manual round trigger.
type TriggerResponse struct {
	Status  string `json:"status"`
	RoundID string `json:"round_id"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Encode wraps data in an envelope for event.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// Decode parses an envelope.
func Decode(msg []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("envelope has no event")
	}
	return env, nil
}
