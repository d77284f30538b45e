package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ioanaionescu/tictactoe-backend/internal/entity"
)

type archiveRepo interface {
	CountByWinner(ctx context.Context, winner string) (int, error)
}

// StatsHandler serves win/loss/tie totals from the game archive.
type StatsHandler struct {
	logger      *slog.Logger
	archiveRepo archiveRepo
}

func NewStatsHandler(logger *slog.Logger, archiveRepo archiveRepo) *StatsHandler {
	return &StatsHandler{
		logger:      logger,
		archiveRepo: archiveRepo,
	}
}

type statsResponse struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Ties  int `json:"ties"`
}

func (that *StatsHandler) Handle(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "Handle")

	var response statsResponse
	var err error

	if response.XWins, err = that.archiveRepo.CountByWinner(req.Context(), entity.PlayerX); err != nil {
		log.Error("failed to count X wins", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if response.OWins, err = that.archiveRepo.CountByWinner(req.Context(), entity.PlayerO); err != nil {
		log.Error("failed to count O wins", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if response.Ties, err = that.archiveRepo.CountByWinner(req.Context(), entity.PlayerTie); err != nil {
		log.Error("failed to count ties", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to encode stats", "error", err)
	}
}
