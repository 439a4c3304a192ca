package domain

import "fmt"

// MoveItem is one row of the move list.
type MoveItem struct {
	Step    int    `json:"step"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// Square is one rendered cell of the current board.
type Square struct {
	Index   int  `json:"index"`
	Value   Cell `json:"value"`
	Winning bool `json:"winning"`
}

// Label describes a history entry for the move list.
func (e Entry) Label() string {
	if e.Move == NoMove {
		return "Go to game start"
	}
	row, col := RowCol(e.Move)
	return fmt.Sprintf("Go to move #%d: (%d,%d)", e.Move, row, col)
}

// MoveList returns the history as list items in display order. Step always
// refers to the canonical history index, whatever the order.
func (g Game) MoveList() []MoveItem {
	items := make([]MoveItem, len(g.history))
	for i, e := range g.history {
		pos := i
		if !g.ascending {
			pos = len(g.history) - 1 - i
		}
		items[pos] = MoveItem{Step: i, Label: e.Label(), Current: i == g.step}
	}
	return items
}

// Squares returns the current board with the winning line, if any, marked.
func (g Game) Squares() []Square {
	board := g.Current()
	res, won := Evaluate(board)
	out := make([]Square, len(board))
	for i, c := range board {
		out[i] = Square{Index: i, Value: c}
	}
	if won {
		for _, i := range res.Line {
			out[i].Winning = true
		}
	}
	return out
}
