package tui

import (
	"github.com/lox/trucoforbots/internal/game"
)

// Seat is the human's side of a match, local or remote
type Seat interface {
	// Poll returns the latest unread view
	Poll() (game.PlayerView, bool)
	// Act submits a command; rejected commands return an error when known
	Act(cmd game.Command) error
	// Notices drains messages to show in the log
	Notices() []string
	// Close leaves the match
	Close() error
}

// LocalSeat plays directly against an in-process game
type LocalSeat struct {
	id      string
	game    *game.Game
	mailbox *game.Mailbox
}

// NewLocalSeat attaches a mailbox for id, who must already be registered in g
func NewLocalSeat(g *game.Game, id string) (*LocalSeat, error) {
	mb := game.NewMailbox()
	if err := g.RegisterMailbox(id, mb); err != nil {
		return nil, err
	}
	return &LocalSeat{id: id, game: g, mailbox: mb}, nil
}

func (s *LocalSeat) Poll() (game.PlayerView, bool) {
	return s.mailbox.Read()
}

func (s *LocalSeat) Act(cmd game.Command) error {
	return s.game.Apply(s.id, cmd)
}

func (s *LocalSeat) Notices() []string {
	return nil
}

func (s *LocalSeat) Close() error {
	return nil
}
