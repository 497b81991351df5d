// Package server runs a session behind a websocket endpoint.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types
const (
	MsgHello   = "hello"
	MsgWelcome = "welcome"
	MsgCommand = "command"
	MsgState   = "state"
	MsgError   = "error"
)

// Envelope wraps every message on the wire
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}

// Hello is the first message a client sends
type Hello struct {
	Name string `json:"name,omitempty"`
}

// Welcome answers a hello
type Welcome struct {
	ClientID       string    `json:"clientId"`
	GridSize       int       `json:"gridSize"`
	TickIntervalMs int64     `json:"tickIntervalMs"` // at 1x speed
	Speeds         []float64 `json:"speeds"`
}

// ErrorMsg reports a message the server could not decode. Commands the
// session rejects are dropped without a reply.
type ErrorMsg struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Encode wraps payload in an envelope of type t
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("encode envelope: empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode envelope %q: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses the outer envelope of a message
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("decode envelope: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodePayload parses an envelope's payload as T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
