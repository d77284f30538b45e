package service

import (
	"math/rand"
	"testing"

	"github.com/ioanaionescu/tictactoe-backend/internal/entity"
	"github.com/ioanaionescu/tictactoe-backend/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("bot places a mark on its turn", func(t *testing.T) {
		// Given: an ongoing bot game with the bot playing X
		game := entity.NewGame("123", entity.WithBotType)
		game.Status = entity.StatusOngoing
		game.Players = []*entity.Player{
			{ID: "human", Mark: entity.PlayerO, GameID: game.ID},
			entity.NewBotPlayer(game.ID, entity.PlayerX),
		}

		// When: the bot takes its turn
		err := NewBotService().MakeTurn(game)

		// Then: exactly one mark is on the board and the turn passed to O
		require.NoError(t, err)
		assert.Equal(t, 1, game.MovesPlayed())
		assert.Equal(t, entity.PlayerO, game.Turn)
	})

	t.Run("fails when no bot is seated", func(t *testing.T) {
		// Given: a game between two humans
		game := entity.NewGame("123", entity.PublicType)
		game.Status = entity.StatusOngoing
		game.Players = []*entity.Player{
			{ID: "a", Mark: entity.PlayerX},
			{ID: "b", Mark: entity.PlayerO},
		}

		// When: the bot service is asked to move anyway
		err := NewBotService().MakeTurn(game)

		// Then: it reports the missing bot
		assert.ErrorIs(t, err, ErrBotNotFound)
	})

	t.Run("fails on a finished board", func(t *testing.T) {
		// Given: a bot game whose board is already decided
		game := entity.NewGame("123", entity.WithBotType)
		game.Status = entity.StatusOngoing
		game.Players = []*entity.Player{entity.NewBotPlayer(game.ID, entity.PlayerO)}
		game.Board = tictactoe.Board{
			{entity.PlayerX, entity.PlayerX, entity.PlayerX},
			{entity.PlayerO, entity.PlayerO, entity.EmptyCell},
			{entity.EmptyCell, entity.EmptyCell, entity.EmptyCell},
		}

		// When: the bot service is asked to move
		err := NewBotService().MakeTurn(game)

		// Then: there is nothing to play
		assert.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}

func TestBotService_NeverLoses(t *testing.T) {
	botService := NewBotService()

	// A random mover plays full games against the bot with both mark
	// assignments. Perfect play can tie or win but must never lose.
	for round := 0; round < 30; round++ {
		humanMark, botMark := entity.PlayerX, entity.PlayerO
		if round%2 == 0 {
			humanMark, botMark = entity.PlayerO, entity.PlayerX
		}

		session := entity.NewGame("match", entity.WithBotType)
		session.Status = entity.StatusOngoing
		session.Players = []*entity.Player{
			{ID: "human", Mark: humanMark, GameID: session.ID},
			entity.NewBotPlayer(session.ID, botMark),
		}

		for !session.IsFinished() {
			if session.Turn == botMark {
				require.NoError(t, botService.MakeTurn(session))
				continue
			}

			actions := tictactoe.LegalActions(session.Board)
			action := actions[rand.Intn(len(actions))] //nolint: gosec // test randomness
			require.NoError(t, session.MakeTurn(humanMark, action))
		}

		assert.NotEqual(t, humanMark, session.Winner, "bot with mark %s lost", botMark)
	}
}
