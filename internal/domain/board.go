package domain

import "fmt"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the mark shown on the board, "" for Empty.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalText encodes the cell as its mark.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes "", "X" or "O".
func (c *Cell) UnmarshalText(b []byte) error {
	switch string(b) {
	case "":
		*c = Empty
	case "X":
		*c = X
	case "O":
		*c = O
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCell, b)
	}
	return nil
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Full reports whether every cell is taken.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

var rowCol = [9][2]int{
	{1, 1}, {1, 2}, {1, 3},
	{2, 1}, {2, 2}, {2, 3},
	{3, 1}, {3, 2}, {3, 3},
}

// RowCol maps a cell index to its 1-indexed row and column.
func RowCol(i int) (row, col int) {
	rc := rowCol[i]
	return rc[0], rc[1]
}

// Lines are the winning triples: rows, columns, diagonals.
var Lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Result describes a won board.
type Result struct {
	Winner Cell
	Line   [3]int
}

// Evaluate returns the first uniform, non-empty line of b.
func Evaluate(b Board) (Result, bool) {
	for _, ln := range Lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return Result{Winner: a, Line: ln}, true
		}
	}
	return Result{}, false
}
