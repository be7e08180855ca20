package game

// Query properties understood by Game.Query
const (
	PropHand             = "hand"
	PropTable            = "table"
	PropLegalActions     = "legal_actions"
	PropIsMyTurn         = "is_my_turn"
	PropScores           = "scores"
	PropRoundHistory     = "round_history"
	PropOpponentHandSize = "opponent_hand_size"
	PropBet              = "bet"
	PropGameState        = "game_state"
)

// Query reads one named property from id's point of view. The result carries
// the player id under "player" and the value under the property name. Unknown
// players and unknown properties yield an empty map.
func (g *Game) Query(id, property string) map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.seatOf(id)
	if !ok {
		return map[string]any{}
	}

	v := g.viewFor(seat)
	var value any
	switch property {
	case PropHand:
		value = v.Hand
	case PropTable:
		value = v.Table
	case PropLegalActions:
		value = v.LegalActions
	case PropIsMyTurn:
		value = v.MyTurn
	case PropScores:
		value = v.Scores
	case PropRoundHistory:
		value = v.RoundHistory
	case PropOpponentHandSize:
		value = v.OpponentHandSize
	case PropBet:
		value = map[string]any{
			"level":            v.BetLevel.String(),
			"label":            v.Bet,
			"waiting_response": v.WaitingResponse,
		}
	case PropGameState:
		value = v
	default:
		return map[string]any{}
	}

	return map[string]any{"player": id, property: value}
}
