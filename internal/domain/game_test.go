package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to apply a sequence of moves
func playMoves(t *testing.T, g *Game, cells ...int) {
	t.Helper()
	for i, c := range cells {
		require.NoError(t, g.Play(c), "move %d (cell %d)", i, c)
	}
}

func TestNewGameInitialState(t *testing.T) {
	g := New()

	assert.Equal(t, X, g.Next())
	assert.Equal(t, 0, g.Step())
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Ascending())
	assert.False(t, g.Over())
	assert.Equal(t, Board{}, g.Current())
	assert.Equal(t, []Entry{{Move: NoMove}}, g.History())
	assert.Equal(t, "Next player: X", g.Status())
}

func TestPlayOutOfBounds(t *testing.T) {
	g := New()
	for _, c := range []int{-1, 9, 42} {
		require.ErrorIs(t, g.Play(c), ErrOutOfBounds, "cell %d", c)
	}
	assert.Equal(t, 1, g.Len())
}

func TestPlayOccupied(t *testing.T) {
	g := New()
	playMoves(t, &g, 4)

	require.ErrorIs(t, g.Play(4), ErrOccupied)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, O, g.Next())
}

func TestPlaySetsMarkAndFlipsTurn(t *testing.T) {
	g := New()

	playMoves(t, &g, 4)
	assert.Equal(t, X, g.Current()[4])
	assert.Equal(t, O, g.Next())

	playMoves(t, &g, 0)
	assert.Equal(t, O, g.Current()[0])
	assert.Equal(t, X, g.Next())

	h := g.History()
	require.Len(t, h, 3)
	assert.Equal(t, 4, h[1].Move)
	assert.Equal(t, 0, h[2].Move)
}

func TestWinConditions(t *testing.T) {
	for _, line := range Lines {
		var fillers []int
		for c := 0; c < 9 && len(fillers) < 3; c++ {
			if c != line[0] && c != line[1] && c != line[2] {
				fillers = append(fillers, c)
			}
		}

		t.Run("X", func(t *testing.T) {
			g := New()
			playMoves(t, &g, line[0], fillers[0], line[1], fillers[1], line[2])

			res, ok := g.Winner()
			require.True(t, ok, "line %v", line)
			assert.Equal(t, X, res.Winner)
			assert.Equal(t, "Winner: X", g.Status())
		})

		t.Run("O", func(t *testing.T) {
			// fillers in a row may themselves form a line for X, so skip those
			b := Board{}
			b[fillers[0]], b[fillers[1]], b[fillers[2]] = X, X, X
			if _, won := Evaluate(b); won {
				t.Skipf("fillers %v win for X", fillers)
			}
			g := New()
			playMoves(t, &g, fillers[0], line[0], fillers[1], line[1], fillers[2], line[2])

			res, ok := g.Winner()
			require.True(t, ok, "line %v", line)
			assert.Equal(t, O, res.Winner)
		})
	}
}

func TestTopRowScenario(t *testing.T) {
	// Given: X plays 0, 1, 2 and O plays 4, 3
	g := New()
	playMoves(t, &g, 0, 4, 1, 3, 2)

	// Then: X wins on the top row
	res, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, X, res.Winner)
	assert.Equal(t, [3]int{0, 1, 2}, res.Line)
	assert.Equal(t, "Winner: X", g.Status())
	assert.True(t, g.Over())
	assert.False(t, g.Draw())
}

func TestDrawNoWinner(t *testing.T) {
	// Given: a sequence that fills X O X / X X O / O X O
	g := New()
	playMoves(t, &g, 0, 1, 2, 5, 3, 6, 4, 8, 7)

	// Then: the board is full with no line
	assert.Equal(t, Board{X, O, X, X, X, O, O, X, O}, g.Current())
	_, won := g.Winner()
	assert.False(t, won)
	assert.True(t, g.Draw())
	assert.True(t, g.Over())
	assert.Equal(t, "Draw", g.Status())

	require.ErrorIs(t, g.Play(0), ErrGameOver)
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
	g := New()
	playMoves(t, &g, 0, 4, 1, 3, 2)
	won := g.Current()

	for i := 0; i < 5; i++ {
		require.ErrorIs(t, g.Play(8), ErrGameOver)
	}
	assert.Equal(t, won, g.Current())
	assert.Equal(t, 6, g.Len())
}

func TestJumpToKeepsHistory(t *testing.T) {
	g := New()
	playMoves(t, &g, 0, 4, 1)

	require.NoError(t, g.JumpTo(1))
	assert.Equal(t, 1, g.Step())
	assert.Equal(t, O, g.Next())
	assert.Equal(t, Board{X}, g.Current())
	assert.Equal(t, 4, g.Len())

	require.NoError(t, g.JumpTo(3))
	assert.Equal(t, O, g.Next())
	assert.Equal(t, Board{X, X, Empty, Empty, O}, g.Current())
}

func TestJumpToOutOfRange(t *testing.T) {
	g := New()
	playMoves(t, &g, 0)

	for _, s := range []int{-1, 2, 10} {
		require.ErrorIs(t, g.JumpTo(s), ErrStepOutOfRange)
	}
	assert.Equal(t, 1, g.Step())
}

func TestPlayFromPastStepBranches(t *testing.T) {
	// Given: three moves played, then a jump back to step 1
	g := New()
	playMoves(t, &g, 0, 4, 1)
	require.NoError(t, g.JumpTo(1))

	// When: O plays somewhere else
	playMoves(t, &g, 8)

	// Then: entries after step 1 are gone and the new one is appended
	h := g.History()
	require.Len(t, h, 3)
	assert.Equal(t, 8, h[2].Move)
	assert.Equal(t, Board{X, Empty, Empty, Empty, Empty, Empty, Empty, Empty, O}, h[2].Squares)
	assert.Equal(t, 2, g.Step())
	assert.Equal(t, X, g.Next())
}

func TestPlayFromPastStepLeavesCopiesIntact(t *testing.T) {
	g := New()
	playMoves(t, &g, 0, 4, 1)
	before := g // shares the history slice
	require.NoError(t, g.JumpTo(1))

	playMoves(t, &g, 8)

	h := before.History()
	require.Len(t, h, 4)
	assert.Equal(t, 4, h[2].Move)
	assert.Equal(t, 1, h[3].Move)
}

func TestJumpToStartResetsTurn(t *testing.T) {
	g := New()
	playMoves(t, &g, 0, 4, 1, 3, 2)
	require.NoError(t, g.JumpTo(0))

	assert.Equal(t, "Next player: X", g.Status())
	assert.False(t, g.Over())
	playMoves(t, &g, 8)
	assert.Equal(t, 2, g.Len())
}

func TestToggleOrder(t *testing.T) {
	g := New()
	g.ToggleOrder()
	assert.False(t, g.Ascending())
	g.ToggleOrder()
	assert.True(t, g.Ascending())
}

func TestZeroValuePlay(t *testing.T) {
	var g Game
	require.NoError(t, g.Play(4))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, X, g.Current()[4])
}
