package tictactoe

import (
	"errors"
	"fmt"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""

	Size = 3
)

var ErrInvalidAction = errors.New("invalid action")

// Board is a 3x3 grid of marks. It is a plain value: assignment copies it,
// so every transition through Apply leaves its input untouched.
type Board [Size][Size]string

// Action addresses one cell of a board by zero-based coordinates.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InitialState returns the canonical empty board.
func InitialState() Board {
	return Board{}
}

// ActivePlayer returns the mark that moves next. X always opens, so X is to
// move exactly when both players have placed the same number of marks. The
// turn is derived from the board every time, never stored.
func ActivePlayer(board Board) string {
	count := 0
	for _, row := range board {
		for _, cell := range row {
			switch cell {
			case PlayerX:
				count++
			case PlayerO:
				count--
			}
		}
	}

	if count == 0 {
		return PlayerX
	}
	return PlayerO
}

// LegalActions returns every empty cell. Callers must not rely on the order;
// the search shuffles it anyway.
func LegalActions(board Board) []Action {
	actions := make([]Action, 0, Size*Size)
	for i, row := range board {
		for j, cell := range row {
			if cell == EmptyCell {
				actions = append(actions, Action{Row: i, Col: j})
			}
		}
	}

	return actions
}

// Apply places the active player's mark on the addressed cell and returns the
// resulting board. The input board is never mutated.
func Apply(board Board, action Action) (Board, error) {
	if action.Row < 0 || action.Row >= Size || action.Col < 0 || action.Col >= Size {
		return board, fmt.Errorf("%w: cell (%d,%d) is out of range", ErrInvalidAction, action.Row, action.Col)
	}

	if board[action.Row][action.Col] != EmptyCell {
		return board, fmt.Errorf("%w: cell (%d,%d) is occupied", ErrInvalidAction, action.Row, action.Col)
	}

	next := board
	next[action.Row][action.Col] = ActivePlayer(board)

	return next, nil
}

// Winner scans the 8 lines in a fixed order: rows, then columns, then the
// two diagonals. Returns the winning mark or EmptyCell.
func Winner(board Board) string {
	for i := 0; i < Size; i++ {
		if board[i][0] != EmptyCell && board[i][0] == board[i][1] && board[i][1] == board[i][2] {
			return board[i][0]
		}
		if board[0][i] != EmptyCell && board[0][i] == board[1][i] && board[1][i] == board[2][i] {
			return board[0][i]
		}
	}

	if board[0][0] != EmptyCell && board[0][0] == board[1][1] && board[1][1] == board[2][2] {
		return board[0][0]
	}
	if board[0][2] != EmptyCell && board[0][2] == board[1][1] && board[1][1] == board[2][0] {
		return board[0][2]
	}

	return EmptyCell
}

// Outcome reports the state of the game: PlayerX or PlayerO when that mark
// completed a line, PlayerTie on a full board with no winner, EmptyCell while
// the game is still in progress. The winner check runs before the emptiness
// check.
func Outcome(board Board) string {
	if winner := Winner(board); winner != EmptyCell {
		return winner
	}

	for _, row := range board {
		for _, cell := range row {
			if cell == EmptyCell {
				return EmptyCell
			}
		}
	}

	return PlayerTie
}

// IsTerminal reports whether the game is over: someone won or the board is
// full.
func IsTerminal(board Board) bool {
	return Outcome(board) != EmptyCell
}

// Utility values a terminal board from X's perspective: +1 if X won, -1 if O
// won, 0 otherwise.
func Utility(board Board) int {
	switch Winner(board) {
	case PlayerX:
		return 1
	case PlayerO:
		return -1
	default:
		return 0
	}
}
