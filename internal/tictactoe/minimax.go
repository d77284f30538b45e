package tictactoe

import (
	"errors"
	"math"
	"math/rand"
)

// searchDepth bounds the recursion. The game tree is never deeper than 9
// plies, so the bound is a safety stop rather than a heuristic cutoff.
const searchDepth = 999999

var ErrNoActionsAvailable = errors.New("no actions available")

// BestMove returns an action that is optimal for the active player under
// minimax with alpha-beta pruning, assuming the opponent also plays
// optimally. A win in one move and a win in five are valued the same, and
// ties between equally good actions are broken at random, so repeated calls
// on the same board may return different moves. Calling it on a terminal
// board is a caller error and returns ErrNoActionsAvailable.
func BestMove(board Board) (Action, error) {
	if IsTerminal(board) {
		return Action{}, ErrNoActionsAvailable
	}

	// Every corner opening is equally optimal for X, so the empty board
	// skips the search and takes the first corner.
	if board == InitialState() {
		return Action{Row: 0, Col: 0}, nil
	}

	var action Action
	if ActivePlayer(board) == PlayerX {
		_, action = maximize(board, searchDepth, math.Inf(-1), math.Inf(1))
	} else {
		_, action = minimize(board, searchDepth, math.Inf(-1), math.Inf(1))
	}

	return action, nil
}

// maximize picks the child with the greatest minimize value. It raises alpha
// as better lines are found and stops scanning once beta <= alpha, since the
// minimizing parent would never let the game reach a line that good.
func maximize(board Board, depth int, alpha, beta float64) (float64, Action) {
	if depth < 0 || IsTerminal(board) {
		return float64(Utility(board)), Action{}
	}

	best := math.Inf(-1)
	var bestAction Action

	for _, action := range shuffledActions(board) {
		next, _ := Apply(board, action)

		value, _ := minimize(next, depth-1, alpha, beta)
		if value > best {
			best = value
			bestAction = action
		}

		alpha = math.Max(alpha, best)
		if beta <= alpha {
			break
		}
	}

	return best, bestAction
}

// minimize is the mirror of maximize: it keeps the least value and lowers
// beta.
func minimize(board Board, depth int, alpha, beta float64) (float64, Action) {
	if depth < 0 || IsTerminal(board) {
		return float64(Utility(board)), Action{}
	}

	best := math.Inf(1)
	var bestAction Action

	for _, action := range shuffledActions(board) {
		next, _ := Apply(board, action)

		value, _ := maximize(next, depth-1, alpha, beta)
		if value < best {
			best = value
			bestAction = action
		}

		beta = math.Min(beta, best)
		if beta <= alpha {
			break
		}
	}

	return best, bestAction
}

// shuffledActions reorders the legal actions on every call so that equally
// valued moves are explored, and therefore chosen, in varying order. The
// global rand source is locked internally, which keeps BestMove safe to call
// from concurrent goroutines.
func shuffledActions(board Board) []Action {
	actions := LegalActions(board)
	rand.Shuffle(len(actions), func(i, j int) { //nolint: gosec // move variety, not crypto
		actions[i], actions[j] = actions[j], actions[i]
	})

	return actions
}
