package tui

import (
	"github.com/lox/trucoforbots/internal/client"
	"github.com/lox/trucoforbots/internal/game"
)

// NetworkSeat adapts a connected client to the Seat the TUI drives. Server
// rejections arrive asynchronously and show up as notices.
type NetworkSeat struct {
	client *client.Client
}

// NewNetworkSeat wraps a client that has already sent its join
func NewNetworkSeat(c *client.Client) *NetworkSeat {
	return &NetworkSeat{client: c}
}

func (s *NetworkSeat) Poll() (game.PlayerView, bool) {
	return s.client.Poll()
}

func (s *NetworkSeat) Act(cmd game.Command) error {
	return s.client.Act(cmd)
}

func (s *NetworkSeat) Notices() []string {
	return s.client.Notices()
}

// Close leaves the match and disconnects
func (s *NetworkSeat) Close() error {
	if s.client.IsConnected() {
		_ = s.client.Leave()
	}
	return s.client.Disconnect()
}
