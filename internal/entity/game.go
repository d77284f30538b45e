package entity

import (
	"fmt"
	"math/rand"

	"github.com/ioanaionescu/tictactoe-backend/internal/apperror"
	"github.com/ioanaionescu/tictactoe-backend/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = tictactoe.PlayerX
	PlayerO   = tictactoe.PlayerO
	PlayerTie = tictactoe.PlayerTie

	EmptyCell = tictactoe.EmptyCell
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

// Game is one tic-tac-toe session between two players. The board itself is
// the pure tictactoe.Board value; the entity adds identity, player seats and
// the waiting/ongoing/finished lifecycle around it.
type Game struct {
	ID      string          `json:"id"`
	Board   tictactoe.Board `json:"board"`
	Winner  string          `json:"winner"`
	Status  string          `json:"status"`
	Turn    string          `json:"player_turn"`
	Players []*Player       `json:"players,omitempty"`
	Type    string          `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  tictactoe.InitialState(),
		Turn:   PlayerX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// MakeTurn plays one move for the given mark. The transition itself is
// delegated to the board model; the next turn is derived from the resulting
// board rather than toggled by hand.
func (that *Game) MakeTurn(playerMark string, action tictactoe.Action) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	board, err := tictactoe.Apply(that.Board, action)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board = board
	that.Turn = tictactoe.ActivePlayer(board)
	that.UpdateGameState()

	return nil
}

func (that *Game) UpdateGameState() {
	switch winner := tictactoe.Outcome(that.Board); winner {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

// MovesPlayed counts the marks on the board.
func (that *Game) MovesPlayed() int {
	count := 0
	for _, row := range that.Board {
		for _, cell := range row {
			if cell != EmptyCell {
				count++
			}
		}
	}

	return count
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
