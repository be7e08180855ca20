package server

import (
	"sort"
	"sync"
	"time"
)

// ServerStats tracks lobby and match activity for the /stats endpoint
type ServerStats struct {
	mu        sync.RWMutex
	startedAt time.Time

	connections      int
	matchesStarted   int
	matchesCompleted int
	matchesAbandoned int
	hands            int
	wins             map[string]int
}

// StatsSnapshot is a point-in-time copy of ServerStats
type StatsSnapshot struct {
	UptimeSeconds    int64          `json:"uptime_seconds"`
	Connections      int            `json:"connections"`
	ActiveMatches    int            `json:"active_matches"`
	MatchesStarted   int            `json:"matches_started"`
	MatchesCompleted int            `json:"matches_completed"`
	MatchesAbandoned int            `json:"matches_abandoned"`
	HandsPlayed      int            `json:"hands_played"`
	Leaders          []LeaderEntry  `json:"leaders"`
	Wins             map[string]int `json:"wins"`
}

// LeaderEntry is one row of the win table
type LeaderEntry struct {
	Player string `json:"player"`
	Wins   int    `json:"wins"`
}

// NewServerStats creates an empty tracker
func NewServerStats(now time.Time) *ServerStats {
	return &ServerStats{
		startedAt: now,
		wins:      make(map[string]int),
	}
}

func (s *ServerStats) connected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections++
}

func (s *ServerStats) disconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connections > 0 {
		s.connections--
	}
}

func (s *ServerStats) matchStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchesStarted++
}

// matchFinished records a match. An empty winner means it was abandoned.
func (s *ServerStats) matchFinished(winner string, hands int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hands += hands
	if winner == "" {
		s.matchesAbandoned++
		return
	}
	s.matchesCompleted++
	s.wins[winner]++
}

// Snapshot copies the current counters
func (s *ServerStats) Snapshot(now time.Time) StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := StatsSnapshot{
		UptimeSeconds:    int64(now.Sub(s.startedAt) / time.Second),
		Connections:      s.connections,
		ActiveMatches:    s.matchesStarted - s.matchesCompleted - s.matchesAbandoned,
		MatchesStarted:   s.matchesStarted,
		MatchesCompleted: s.matchesCompleted,
		MatchesAbandoned: s.matchesAbandoned,
		HandsPlayed:      s.hands,
		Wins:             make(map[string]int, len(s.wins)),
		Leaders:          make([]LeaderEntry, 0, len(s.wins)),
	}
	for player, wins := range s.wins {
		snap.Wins[player] = wins
		snap.Leaders = append(snap.Leaders, LeaderEntry{Player: player, Wins: wins})
	}

	sort.Slice(snap.Leaders, func(i, j int) bool {
		if snap.Leaders[i].Wins != snap.Leaders[j].Wins {
			return snap.Leaders[i].Wins > snap.Leaders[j].Wins
		}
		return snap.Leaders[i].Player < snap.Leaders[j].Player
	})
	return snap
}
