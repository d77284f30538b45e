package tictactoe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestMove_TerminalBoard(t *testing.T) {
	// Given: a board X has already won
	board := Board{
		{PlayerX, PlayerX, PlayerX},
		{PlayerO, PlayerO, EmptyCell},
		{EmptyCell, EmptyCell, EmptyCell},
	}

	// When: a move is requested anyway
	_, err := BestMove(board)

	// Then: the contract violation is reported
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoActionsAvailable)
}

func TestBestMove_OpeningShortcut(t *testing.T) {
	// Given: the empty board
	board := InitialState()

	// When: the opening move is requested
	action, err := BestMove(board)

	// Then: the precomputed corner is returned without a search
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 0}, action)
}

func TestBestMove_CompletesWinningLine(t *testing.T) {
	// Given: X has two in the top row with the third cell open, X to move
	board := Board{
		{PlayerX, PlayerX, EmptyCell},
		{PlayerO, PlayerO, EmptyCell},
		{PlayerX, EmptyCell, EmptyCell},
	}
	require.Equal(t, PlayerO, ActivePlayer(board))

	// O must block or lose, but O also has two in a row: its win comes first
	action, err := BestMove(board)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 1, Col: 2}, action)
}

func TestBestMove_ForcedWin(t *testing.T) {
	// Given: X has two in the first column with the third cell open, X to move
	board := Board{
		{PlayerX, PlayerO, EmptyCell},
		{PlayerX, PlayerO, EmptyCell},
		{EmptyCell, EmptyCell, EmptyCell},
	}
	require.Equal(t, PlayerX, ActivePlayer(board))

	// When: X asks for the best move
	action, err := BestMove(board)

	// Then: X completes the column
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 2, Col: 0}, action)
}

func TestBestMove_ForcedBlock(t *testing.T) {
	// Given: O threatens the middle row, X to move with no win of its own
	board := Board{
		{PlayerX, EmptyCell, EmptyCell},
		{PlayerO, PlayerO, EmptyCell},
		{PlayerX, EmptyCell, EmptyCell},
	}
	require.Equal(t, PlayerX, ActivePlayer(board))

	// When: X asks for the best move
	action, err := BestMove(board)

	// Then: X blocks the open end of the row
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 1, Col: 2}, action)
}

func TestBestMove_SelfPlayAlwaysDraws(t *testing.T) {
	// Optimal play on both sides can never produce a winner. The move
	// ordering is randomized, so several games cover different lines.
	for i := 0; i < 20; i++ {
		board := InitialState()

		for !IsTerminal(board) {
			action, err := BestMove(board)
			require.NoError(t, err)

			board, err = Apply(board, action)
			require.NoError(t, err)
		}

		assert.Equal(t, PlayerTie, Outcome(board))
	}
}

func TestBestMove_NeverLosesAgainstAnyOpening(t *testing.T) {
	// X tries every opening cell; O answers with BestMove for the rest of
	// the game while X plays BestMove too. O must at least draw.
	for _, opening := range LegalActions(InitialState()) {
		board, err := Apply(InitialState(), opening)
		require.NoError(t, err)

		for !IsTerminal(board) {
			action, err := BestMove(board)
			require.NoError(t, err)

			board, err = Apply(board, action)
			require.NoError(t, err)
		}

		assert.Equal(t, PlayerTie, Outcome(board), "opening %+v should still end in a draw", opening)
	}
}

func TestPruningDoesNotChangeValue(t *testing.T) {
	// Alpha-beta may change which of several equal moves is picked, never
	// the value. Compare against a full-width reference search on every
	// board reachable within the first four plies.
	boards := reachableBoards(InitialState(), 4)

	for _, board := range boards {
		if IsTerminal(board) {
			continue
		}

		var pruned float64
		if ActivePlayer(board) == PlayerX {
			pruned, _ = maximize(board, searchDepth, math.Inf(-1), math.Inf(1))
		} else {
			pruned, _ = minimize(board, searchDepth, math.Inf(-1), math.Inf(1))
		}

		require.InDelta(t, fullWidthValue(board), pruned, 0, "board %v", board)
	}
}

// reachableBoards collects every board reachable from start in at most depth
// plies, start included.
func reachableBoards(start Board, depth int) []Board {
	boards := []Board{start}
	if depth == 0 || IsTerminal(start) {
		return boards
	}

	for _, action := range LegalActions(start) {
		next, _ := Apply(start, action)
		boards = append(boards, reachableBoards(next, depth-1)...)
	}

	return boards
}

// fullWidthValue is a reference minimax with pruning disabled.
func fullWidthValue(board Board) float64 {
	if IsTerminal(board) {
		return float64(Utility(board))
	}

	maximizing := ActivePlayer(board) == PlayerX

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}

	for _, action := range LegalActions(board) {
		next, _ := Apply(board, action)

		value := fullWidthValue(next)
		if maximizing {
			best = math.Max(best, value)
		} else {
			best = math.Min(best, value)
		}
	}

	return best
}
