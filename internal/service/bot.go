package service

import (
	"errors"
	"fmt"

	"github.com/ioanaionescu/tictactoe-backend/internal/entity"
	"github.com/ioanaionescu/tictactoe-backend/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn plays the bot's move. The move comes from a full minimax search,
// so the bot never loses: the worst it concedes from any position it didn't
// already lose is a draw.
func (that *botService) MakeTurn(game *entity.Game) error {
	var botPlayer *entity.Player
	for _, player := range game.Players {
		if player.IsBot() {
			botPlayer = player
			break
		}
	}

	if botPlayer == nil {
		return ErrBotNotFound
	}

	action, err := tictactoe.BestMove(game.Board)
	if errors.Is(err, tictactoe.ErrNoActionsAvailable) {
		return ErrNoAvailableMoves
	}

	if err != nil {
		return fmt.Errorf("failed to pick bot move: %w", err)
	}

	if err = game.MakeTurn(botPlayer.Mark, action); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
