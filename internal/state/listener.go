package state

import "go-pairs/internal/board"

// Listener receives notifications at the point each state change happens.
type Listener interface {
	CardFaceChanged(pos board.Position, faceUp bool)
	MatchResolved(a, b board.Position, matched bool)
	TurnCountChanged(matchedCount int)
	GameWon()
}

// NopListener ignores every notification. Embed it to implement only part of Listener.
type NopListener struct{}

func (NopListener) CardFaceChanged(board.Position, bool)              {}
func (NopListener) MatchResolved(board.Position, board.Position, bool) {}
func (NopListener) TurnCountChanged(int)                               {}
func (NopListener) GameWon()                                           {}
