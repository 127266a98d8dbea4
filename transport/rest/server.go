package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/duel-backend/internal/entity"
	"github.com/rocketscienceinc/duel-backend/internal/match"
)

const shutdownTimeout = 5 * time.Second

type caroMatch interface {
	Snapshot() match.CaroState
}

type rpsMatch interface {
	Snapshot() match.RPSState
}

type resultArchive interface {
	List(ctx context.Context, game string, limit int) ([]*entity.MatchResult, error)
	Leaderboard(ctx context.Context, game string, limit int) ([]entity.LeaderboardEntry, error)
}

// Server exposes read-only views of both matches and of the results archive.
type Server struct {
	logger *slog.Logger

	caro    caroMatch
	rps     rpsMatch
	archive resultArchive
}

// New - archive may be nil, the archive endpoints then answer 503.
func New(logger *slog.Logger, caro caroMatch, rps rpsMatch, archive resultArchive) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		caro:    caro,
		rps:     rps,
		archive: archive,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /matches/caro", that.caroMatchHandler)
	mux.HandleFunc("GET /matches/rps", that.rpsMatchHandler)
	mux.HandleFunc("GET /results/{game}", that.resultsHandler)
	mux.HandleFunc("GET /leaderboard/{game}", that.leaderboardHandler)

	return mux
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
