package websocket

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ioanaionescu/tictactoe-backend/internal/entity"
	"github.com/ioanaionescu/tictactoe-backend/internal/tictactoe"
)

type stubPlayerService struct {
	player *entity.Player
}

func (that *stubPlayerService) GetOrCreatePlayer(_ context.Context, id string) (*entity.Player, error) {
	if that.player != nil {
		return that.player, nil
	}
	return &entity.Player{ID: id}, nil
}

type stubGamePlay struct {
	game      *entity.Game
	gameErr   error
	cleanedUp []*entity.Game
}

func (that *stubGamePlay) JoinGameByID(_ context.Context, _, _ string) (*entity.Game, error) {
	return that.game, that.gameErr
}

func (that *stubGamePlay) JoinWaitingPublicGame(_ context.Context, _ string) (*entity.Game, error) {
	return that.game, that.gameErr
}

func (that *stubGamePlay) GetOrCreateGame(_ context.Context, _ *entity.Player, _ string) (*entity.Game, error) {
	return that.game, that.gameErr
}

func (that *stubGamePlay) GetGameByPlayerID(_ context.Context, _ string) (*entity.Game, error) {
	return that.game, that.gameErr
}

func (that *stubGamePlay) CleanupGame(_ context.Context, game *entity.Game) {
	that.cleanedUp = append(that.cleanedUp, game)
}

func (that *stubGamePlay) MakeTurn(_ context.Context, _ string, _ tictactoe.Action) (*entity.Game, error) {
	return that.game, that.gameErr
}

func newTestServer(gamePlay *stubGamePlay) *Server {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(logger, &stubPlayerService{}, gamePlay)
}

func newTestConn(out *bytes.Buffer) *bufio.ReadWriter {
	return bufio.NewReadWriter(bufio.NewReader(strings.NewReader("")), bufio.NewWriter(out))
}

func leaveMessage(t *testing.T, player *entity.Player) *Message {
	t.Helper()

	payload, err := json.Marshal(Payload{Player: player})
	require.NoError(t, err)

	return &Message{Action: "game:leave", Payload: payload}
}

func TestServer_HandleGameLeave(t *testing.T) {
	t.Run("should notify the remaining seat and clean up the game", func(t *testing.T) {
		// Given: an ongoing bot game with one seated human.
		game := entity.NewGame("leave123", entity.WithBotType)
		game.Status = entity.StatusOngoing
		human := &entity.Player{ID: "player1", Mark: tictactoe.PlayerX, GameID: game.ID}
		game.Players = []*entity.Player{human, entity.NewBotPlayer(game.ID, tictactoe.PlayerO)}

		gamePlay := &stubGamePlay{game: game}
		server := newTestServer(gamePlay)

		var out bytes.Buffer
		conn := newTestConn(&out)

		// When: the human leaves.
		err := server.handleGameLeave(context.Background(), leaveMessage(t, human), conn)
		require.NoError(t, err)

		// Then: the game is evicted exactly once.
		require.Len(t, gamePlay.cleanedUp, 1)
		require.Equal(t, game, gamePlay.cleanedUp[0])

		// And: the seated human got a game:leave frame with a leave status.
		require.Contains(t, out.String(), `"action":"game:leave"`)
		require.Contains(t, out.String(), `"status":"leave"`)

		// And: the stored game itself keeps its status.
		require.Equal(t, entity.StatusOngoing, game.Status)
	})

	t.Run("should reject a payload without a player", func(t *testing.T) {
		server := newTestServer(&stubGamePlay{})

		var out bytes.Buffer
		conn := newTestConn(&out)

		payload, err := json.Marshal(Payload{})
		require.NoError(t, err)

		err = server.handleGameLeave(context.Background(), &Message{Action: "game:leave", Payload: payload}, conn)
		require.NoError(t, err)

		require.Contains(t, out.String(), "Player is required")
		require.Empty(t, server.gamePlay.(*stubGamePlay).cleanedUp)
	})

	t.Run("should report a missing game", func(t *testing.T) {
		gamePlay := &stubGamePlay{gameErr: context.DeadlineExceeded}
		server := newTestServer(gamePlay)

		var out bytes.Buffer
		conn := newTestConn(&out)

		err := server.handleGameLeave(context.Background(), leaveMessage(t, &entity.Player{ID: "player1"}), conn)
		require.NoError(t, err)

		require.Contains(t, out.String(), "game doesn't exist")
		require.Empty(t, gamePlay.cleanedUp)
	})
}

func TestServer_RegistersLeaveAction(t *testing.T) {
	server := newTestServer(&stubGamePlay{})
	require.Contains(t, server.handlers, "game:leave")
}
