package server

import (
	"encoding/json"
	"time"

	"github.com/lox/trucoforbots/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the message payload into v
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Data, v)
}

// Client → Server Messages

// JoinData asks for a seat. Opponent "house" plays the server's bot straight
// away; anything else waits in the lobby for another client.
type JoinData struct {
	Name     string `json:"name"`
	Opponent string `json:"opponent,omitempty"`
}

// ActionData is a player's command. Index is only read for play_card.
type ActionData struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// Command converts the payload into an engine command
func (d ActionData) Command() (game.Command, error) {
	a, err := game.ParseAction(d.Action)
	if err != nil {
		return game.Command{}, err
	}
	if a == game.PlayCard {
		return game.PlayAt(d.Index), nil
	}
	return game.Do(a), nil
}

// Server → Client Messages

type WaitingData struct {
	Player string `json:"player"`
}

type JoinedData struct {
	MatchID  string `json:"matchId"`
	Player   string `json:"player"`
	Opponent string `json:"opponent"`
	Seat     int    `json:"seat"`
}

type StateData struct {
	MatchID string          `json:"matchId"`
	View    game.PlayerView `json:"view"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LeftData struct {
	MatchID string `json:"matchId,omitempty"`
}
