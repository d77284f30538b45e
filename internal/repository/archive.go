package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ioanaionescu/tictactoe-backend/internal/entity"
)

// ArchiveRepository keeps a permanent record of finished games after their
// live state is evicted from redis.
type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game) error
	CountByWinner(ctx context.Context, winner string) (int, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Save(ctx context.Context, game *entity.Game) error {
	query := `INSERT INTO archive (game_id, winner, moves, finished_at) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, game.ID, game.Winner, game.MovesPlayed(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("can't archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) CountByWinner(ctx context.Context, winner string) (int, error) {
	query := `SELECT COUNT(*) FROM archive WHERE winner = ?`

	var count int
	if err := that.conn.QueryRowContext(ctx, query, winner).Scan(&count); err != nil {
		return 0, fmt.Errorf("can't count archived games: %w", err)
	}

	return count, nil
}
