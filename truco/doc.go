// Package truco models the 40-card Spanish deck used by Argentine Truco.
//
// Cards carry a fixed power ranking that decides every round:
//
//	1 de Espada  14    7 de Oro   11    1 de Oro/Copa   8    10s  5    5s  2
//	1 de Basto   13    3s         10    12s             7    7 de Basto/Copa 4
//	7 de Espada  12    2s          9    11s             6    6s   3    4s  1
//
// Decks are shuffled with an injected *rand.Rand so games are reproducible:
//
//	d := truco.NewDeck(randutil.New(42))
//	hand := d.Deal(3)
package truco
