package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/trucoforbots/truco"
)

// Game is a two-player truco match. All state is owned by the Game and every
// command and query is serialized behind a single mutex.
type Game struct {
	mu sync.Mutex

	id          string
	logger      *log.Logger
	rng         *rand.Rand
	deckSource  DeckSource
	targetScore int

	players   []string
	mailboxes [2]*Mailbox

	phase      Phase
	hands      [2][]truco.Card
	table      []Play
	rounds     []RoundOutcome
	bet        BetState
	scores     [2]int
	dealer     int
	mano       int
	turn       int
	handNumber int
	winner     int
	results    []HandResult

	firstDealer int
}

// NewGame creates a game waiting for its two players. The RNG drives shuffling
// and the choice of the first dealer.
func NewGame(rng *rand.Rand, opts ...Option) *Game {
	if rng == nil {
		panic("rng is required for game creation")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.Must(uuid.NewV7()).String()
	}

	return &Game{
		id:          cfg.id,
		logger:      cfg.logger.WithPrefix("game").With("game", shortID(cfg.id)),
		rng:         rng,
		deckSource:  cfg.deckSource,
		targetScore: cfg.targetScore,
		phase:       PhaseWaitingForPlayers,
		bet:         newBetState(),
		dealer:      -1,
		mano:        -1,
		turn:        -1,
		winner:      -1,
		firstDealer: cfg.firstDealer,
	}
}

// ID returns the game id
func (g *Game) ID() string {
	return g.id
}

// RegisterPlayer seats a player. The second registration deals the first hand.
func (g *Game) RegisterPlayer(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == "" {
		return ErrEmptyPlayerID
	}
	if slices.Contains(g.players, id) {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	if len(g.players) == 2 {
		return fmt.Errorf("%w: cannot seat %s", ErrTableFull, id)
	}

	g.players = append(g.players, id)
	g.logger.Info("Player registered", "player", id, "seat", len(g.players)-1)

	if len(g.players) == 2 {
		g.dealer = g.firstDealer
		if g.dealer < 0 {
			g.dealer = g.rng.IntN(2)
		}
		g.deal()
		g.pushAll()
	}
	return nil
}

// RegisterMailbox attaches the mailbox that receives id's views and pushes the
// current view into it straight away.
func (g *Game) RegisterMailbox(id string, mb *Mailbox) error {
	if mb == nil {
		return fmt.Errorf("nil mailbox for %s", id)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.seatOf(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregisteredPlayer, id)
	}
	if g.mailboxes[seat] != nil {
		return fmt.Errorf("%w: %s", ErrMailboxRegistered, id)
	}

	g.mailboxes[seat] = mb
	mb.Update(g.viewFor(seat))
	return nil
}

// Apply executes cmd on behalf of player id. Rejected commands return an error
// wrapping one of the Err* kinds and leave the game untouched.
func (g *Game) Apply(id string, cmd Command) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.seatOf(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregisteredPlayer, id)
	}

	switch g.phase {
	case PhaseGameOver:
		return ErrGameOver
	case PhaseWaitingForPlayers:
		return ErrNotStarted
	}

	if seat != g.turn {
		return fmt.Errorf("%w: %s acts", ErrNotYourTurn, g.players[g.turn])
	}

	if !slices.Contains(legalActions(g.phase, g.bet.Level), cmd.Action) {
		return fmt.Errorf("%w: %s during %s (%s)", ErrIllegalAction, cmd.Action, g.phase, g.bet.Level)
	}

	switch cmd.Action {
	case PlayCard:
		if cmd.Index < 0 || cmd.Index >= len(g.hands[seat]) {
			return fmt.Errorf("%w: %d with %d cards in hand", ErrInvalidCardIndex, cmd.Index, len(g.hands[seat]))
		}
		g.playCard(seat, cmd.Index)

	case Truco, Retruco, ValeCuatro:
		g.bet.raise(seat, raiseTarget(cmd.Action))
		g.phase = PhaseAwaitingResponse
		g.turn = other(seat)

	case Quiero:
		g.bet.accept()
		g.phase = PhasePlaying
		g.turn = g.nextToPlay()

	case NoQuiero:
		g.endHand(other(seat), g.bet.Level.RejectPoints(), EndRejected)

	case IrseAlMazo:
		g.endHand(other(seat), g.bet.settled(), EndFolded)
	}

	g.logger.Debug("Command applied", "player", id, "command", cmd, "phase", g.phase, "bet", g.bet.Level)
	g.pushAll()
	return nil
}

// Command is the lenient entry point: it resolves the action by name and
// silently drops anything that is out of turn, illegal or malformed.
// PlayCard reads the card position from params["index"].
func (g *Game) Command(id, action string, params map[string]int) {
	a, err := ParseAction(action)
	if err != nil {
		g.logger.Debug("Ignoring command", "player", id, "action", action, "error", err)
		return
	}

	cmd := Command{Action: a}
	if a == PlayCard {
		index, ok := params["index"]
		if !ok {
			index = -1
		}
		cmd.Index = index
	}

	if err := g.Apply(id, cmd); err != nil {
		g.logger.Debug("Ignoring command", "player", id, "command", cmd, "error", err)
	}
}

// IsGameOver reports whether the match has been decided
func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == PhaseGameOver
}

// Winner returns the match winner once the game is over
func (g *Game) Winner() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.winner < 0 {
		return "", false
	}
	return g.players[g.winner], true
}

// Phase returns the current protocol phase
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Players returns the registered player ids in seat order
func (g *Game) Players() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.players)
}

// Scores returns the match score by player id
func (g *Game) Scores() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scoreMap()
}

// Results returns every completed hand in order
func (g *Game) Results() []HandResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]HandResult, len(g.results))
	for i, r := range g.results {
		r.Rounds = slices.Clone(r.Rounds)
		out[i] = r
	}
	return out
}

func (g *Game) seatOf(id string) (int, bool) {
	seat := slices.Index(g.players, id)
	return seat, seat >= 0
}

func (g *Game) scoreMap() map[string]int {
	scores := make(map[string]int, len(g.players))
	for seat, id := range g.players {
		scores[id] = g.scores[seat]
	}
	return scores
}

func (g *Game) nameOf(seat int) string {
	if seat < 0 || seat >= len(g.players) {
		return ""
	}
	return g.players[seat]
}

func other(seat int) int {
	return 1 - seat
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
