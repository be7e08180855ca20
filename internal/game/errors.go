package game

import (
	"errors"
	"fmt"
)

// Command rejections. A rejected command never changes state or pushes views.
var (
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalAction      = errors.New("illegal action")
	ErrInvalidCardIndex   = errors.New("invalid card index")
	ErrGameOver           = errors.New("game is over")
	ErrUnregisteredPlayer = errors.New("unregistered player")
	ErrNotStarted         = errors.New("game has not started")
	ErrEmptyPlayerID      = errors.New("player id must not be empty")
	ErrUnknownAction      = fmt.Errorf("%w: unknown action", ErrIllegalAction)
)

// Structural misuse of the registration API
var (
	ErrTableFull         = errors.New("table already has two players")
	ErrAlreadyRegistered = errors.New("player already registered")
	ErrMailboxRegistered = errors.New("player already has a mailbox")
)
