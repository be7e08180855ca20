package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/internal/runner"
)

// HouseOpponent is the JoinData.Opponent value that asks for the house bot
const HouseOpponent = "house"

// Match is one running game and the connections seated in it
type Match struct {
	ID      string
	Game    *game.Game
	Players [2]string

	conns  map[string]*Connection
	cancel context.CancelFunc
}

// MatchService pairs players into matches and relays their views
type MatchService struct {
	cfg    *ServerConfig
	clock  quartz.Clock
	logger *log.Logger
	stats  *ServerStats
	seed   int64

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	waiting *Connection
	names   map[string]*Connection
	matches map[string]*Match
	created int
}

// NewMatchService creates a service for cfg. A zero match seed is replaced
// with one drawn from the clock.
func NewMatchService(cfg *ServerConfig, clock quartz.Clock, logger *log.Logger, stats *ServerStats) *MatchService {
	seed := cfg.Match.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &MatchService{
		cfg:     cfg,
		clock:   clock,
		logger:  logger.WithPrefix("matches"),
		stats:   stats,
		seed:    seed,
		ctx:     ctx,
		cancel:  cancel,
		names:   make(map[string]*Connection),
		matches: make(map[string]*Match),
	}
}

// Join seats c under data.Name. On failure the returned code is the error
// code to report to the client.
func (s *MatchService) Join(c *Connection, data JoinData) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.names[data.Name]; taken || s.isHouseName(data.Name) {
		return CodeNameTaken, fmt.Errorf("name %q is taken", data.Name)
	}

	wantsHouse := data.Opponent == HouseOpponent
	if wantsHouse && s.cfg.HouseBot == nil {
		return CodeUnavailable, errors.New("no house bot configured")
	}

	s.names[data.Name] = c
	c.SetPlayer(data.Name)

	switch {
	case wantsHouse:
		s.startMatch([2]string{data.Name, s.cfg.HouseBot.Name}, c, nil)

	case s.waiting != nil:
		waiting := s.waiting
		s.waiting = nil
		s.startMatch([2]string{waiting.Player(), data.Name}, waiting, c)

	case s.cfg.HouseBot != nil && s.cfg.HouseBot.Auto:
		s.startMatch([2]string{data.Name, s.cfg.HouseBot.Name}, c, nil)

	default:
		s.waiting = c
		s.logger.Info("Player waiting for an opponent", "player", data.Name)
		_ = c.SendMessage(mustMessage(MessageTypeWaiting, WaitingData{Player: data.Name}))
	}
	return "", nil
}

// Apply forwards a command to the player's match
func (s *MatchService) Apply(matchID, player string, cmd game.Command) error {
	s.mu.Lock()
	m, ok := s.matches[matchID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("match %s is no longer running", matchID)
	}
	return m.Game.Apply(player, cmd)
}

// Leave removes c from the lobby or abandons its match. The opponent, if any,
// is told and freed to join again.
func (s *MatchService) Leave(c *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiting == c {
		s.waiting = nil
	}
	if m, ok := s.matches[c.Match()]; ok {
		s.logger.Info("Player left match", "player", c.Player(), "match", m.ID)
		for _, other := range m.conns {
			if other != c {
				other.sendError(CodeOpponentLeft, fmt.Sprintf("%s left the match", c.Player()))
			}
		}
		s.endMatchLocked(m)
	}
	if c.Player() != "" && s.names[c.Player()] == c {
		delete(s.names, c.Player())
	}
	c.SetPlayer("")
	c.SetMatch("")
}

// Match looks up a running match
func (s *MatchService) Match(id string) (*Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	return m, ok
}

// Waiting returns the name of the player in the lobby, if any
func (s *MatchService) Waiting() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting == nil {
		return ""
	}
	return s.waiting.Player()
}

// Stop abandons every running match
func (s *MatchService) Stop() {
	s.cancel()
}

func (s *MatchService) isHouseName(name string) bool {
	return s.cfg.HouseBot != nil && s.cfg.HouseBot.Name == name
}

// startMatch creates the game for players in seat order. second is nil when
// the house bot takes seat 1. Callers hold s.mu.
func (s *MatchService) startMatch(players [2]string, first, second *Connection) {
	n := s.created
	s.created++

	g := game.NewGame(randutil.Derive(s.seed, 2*n),
		game.WithTargetScore(s.cfg.Match.TargetScore),
		game.WithLogger(s.logger),
	)

	ctx, cancel := context.WithCancel(s.ctx)
	m := &Match{
		ID:      g.ID(),
		Game:    g,
		Players: players,
		conns:   make(map[string]*Connection, 2),
		cancel:  cancel,
	}

	for _, p := range players {
		if err := g.RegisterPlayer(p); err != nil {
			// Names are checked against the lobby before we get here.
			panic(fmt.Sprintf("seating %s: %v", p, err))
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	for seat, c := range []*Connection{first, second} {
		if c == nil {
			continue
		}
		m.conns[players[seat]] = c
		c.SetMatch(m.ID)
		_ = c.SendMessage(mustMessage(MessageTypeJoined, JoinedData{
			MatchID:  m.ID,
			Player:   players[seat],
			Opponent: players[1-seat],
			Seat:     seat,
		}))

		eg.Go(func() error {
			return s.watch(ctx, m, players[seat], c)
		})
	}

	if second == nil {
		house, err := bot.New(s.cfg.HouseBot.Strategy, randutil.Derive(s.seed, 2*n+1), s.logger)
		if err != nil {
			panic(err) // strategy is validated with the config
		}
		agent := runner.NewAgent(players[1], g, house, runner.Config{
			Clock:        s.clock,
			PollInterval: s.cfg.PollInterval(),
			Logger:       s.logger,
		})
		eg.Go(func() error {
			return agent.Run(ctx)
		})
	}

	s.matches[m.ID] = m
	s.stats.matchStarted()
	s.logger.Info("Match started", "match", m.ID, "players", players)

	go func() {
		err := eg.Wait()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("Match stopped", "match", m.ID, "error", err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.endMatchLocked(m)
	}()
}

// watch relays one player's views to their connection until the match ends
func (s *MatchService) watch(ctx context.Context, m *Match, player string, c *Connection) error {
	mailbox := game.NewMailbox()
	if err := m.Game.RegisterMailbox(player, mailbox); err != nil {
		return err
	}

	ticker := s.clock.NewTicker(s.cfg.PollInterval(), "watch", player)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.Done():
			s.Leave(c)
			return ErrConnectionClosed
		case <-ticker.C:
			view, ok := mailbox.Read()
			if !ok {
				continue
			}
			if err := c.SendMessage(mustMessage(MessageTypeState, StateData{MatchID: m.ID, View: view})); err != nil {
				return err
			}
			if view.GameOver {
				return nil
			}
		}
	}
}

// endMatchLocked removes m once. Callers hold s.mu.
func (s *MatchService) endMatchLocked(m *Match) {
	if _, ok := s.matches[m.ID]; !ok {
		return
	}
	delete(s.matches, m.ID)
	m.cancel()

	for name, c := range m.conns {
		if s.names[name] == c {
			delete(s.names, name)
		}
		c.SetPlayer("")
		c.SetMatch("")
	}

	winner, _ := m.Game.Winner()
	s.stats.matchFinished(winner, len(m.Game.Results()))
	s.logger.Info("Match ended", "match", m.ID, "winner", winner, "scores", m.Game.Scores())
}
