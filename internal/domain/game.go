package domain

import (
	"errors"
	"fmt"
)

// NoMove marks the initial history entry, which no move produced.
const NoMove = -1

// Entry is an immutable snapshot of the board after a move.
type Entry struct {
	Squares Board `json:"squares"`
	Move    int   `json:"move"`
}

// Game holds the move history of a Tic-Tac-Toe match and the step being viewed.
type Game struct {
	history   []Entry
	step      int
	ascending bool
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds    = errors.New("out of bounds")
	ErrOccupied       = errors.New("cell occupied")
	ErrGameOver       = errors.New("game over")
	ErrStepOutOfRange = errors.New("step out of range")
	ErrInvalidCell    = errors.New("invalid cell")
	ErrCorruptHistory = errors.New("corrupt history")
)

// New returns a new game with X to move and the history list in ascending order.
func New() Game {
	return Game{
		history:   []Entry{{Move: NoMove}},
		ascending: true,
	}
}

// Play places the next mark at cell (0..8) on the board being viewed.
// Entries after the current step are discarded first.
func (g *Game) Play(cell int) error {
	if cell < 0 || cell > 8 {
		return ErrOutOfBounds
	}
	if len(g.history) == 0 {
		g.history = []Entry{{Move: NoMove}}
	}
	if g.Over() {
		return ErrGameOver
	}
	squares := g.Current()
	if squares[cell] != Empty {
		return ErrOccupied
	}
	squares[cell] = g.Next()

	// clipped so append never writes into a backing array shared with older copies
	kept := g.history[: g.step+1 : g.step+1]
	g.history = append(kept, Entry{Squares: squares, Move: cell})
	g.step++
	return nil
}

// JumpTo moves the view to step without touching the stored history.
func (g *Game) JumpTo(step int) error {
	if step < 0 || step >= len(g.history) {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrStepOutOfRange, step, len(g.history)-1)
	}
	g.step = step
	return nil
}

// ToggleOrder flips the order the move list is presented in.
func (g *Game) ToggleOrder() {
	g.ascending = !g.ascending
}

// Current returns a copy of the board at the current step.
func (g Game) Current() Board {
	if len(g.history) == 0 {
		return Board{}
	}
	return g.history[g.step].Squares
}

// Step returns the index of the entry being viewed.
func (g Game) Step() int { return g.step }

// Len returns the number of history entries, the initial one included.
func (g Game) Len() int { return len(g.history) }

// Ascending reports the move list order.
func (g Game) Ascending() bool { return g.ascending }

// Next returns the mark to play at the current step.
func (g Game) Next() Cell {
	if g.step%2 == 0 {
		return X
	}
	return O
}

// Winner evaluates the current board.
func (g Game) Winner() (Result, bool) {
	return Evaluate(g.Current())
}

// Draw reports a full board without a winner.
func (g Game) Draw() bool {
	if _, ok := g.Winner(); ok {
		return false
	}
	return g.Current().Full()
}

// Over reports whether the current board accepts no more moves.
func (g Game) Over() bool {
	if _, ok := g.Winner(); ok {
		return true
	}
	return g.Current().Full()
}

// Status is the line shown above the move list.
func (g Game) Status() string {
	if res, ok := g.Winner(); ok {
		return "Winner: " + res.Winner.String()
	}
	if g.Current().Full() {
		return "Draw"
	}
	return "Next player: " + g.Next().String()
}

// History returns a copy of all entries in canonical order.
func (g Game) History() []Entry {
	return append([]Entry(nil), g.history...)
}
