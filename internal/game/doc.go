// Package game implements the two-player Argentine Truco engine.
//
// The main type is Game, which owns the whole match: seating, dealing, turn
// order, the Truco → Retruco → Vale Cuatro escalation, round and hand
// resolution, and scoring up to the target score (15 by default).
//
// # Basic Usage
//
//	g := game.NewGame(randutil.New(42))
//	_ = g.RegisterPlayer("alice")
//	_ = g.RegisterPlayer("bob") // deals the first hand
//
//	mb := game.NewMailbox()
//	_ = g.RegisterMailbox("alice", mb)
//	if view, ok := mb.Read(); ok && view.MyTurn {
//	    err := g.Apply("alice", game.PlayAt(0))
//	}
//
// # Commands
//
// Apply returns an error wrapping one of ErrNotYourTurn, ErrIllegalAction,
// ErrInvalidCardIndex, ErrGameOver or ErrUnregisteredPlayer when a command is
// rejected; a rejected command changes nothing and pushes no views. Command is
// the lenient, name-based variant that drops rejected commands silently.
//
// # Views
//
// Every accepted command pushes a fresh PlayerView into each registered
// Mailbox. Mailboxes keep only the latest view, so pollers observe the newest
// state and may skip intermediate ones. A view never contains the opponent's
// cards, only how many they hold.
//
// # Deterministic Testing
//
// Inject a seeded RNG and script the deals:
//
//	deck := truco.NewStackedDeck(cards...) // mano gets cards[0:3], dealer cards[3:6]
//	g := game.NewGame(randutil.New(1), game.WithFirstDealer(1), game.WithDecks(deck))
package game
