package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
	"github.com/rocketscienceinc/duel-backend/internal/entity"
)

type resultRecorder interface {
	Save(ctx context.Context, result *entity.MatchResult) error
}

// saveResult archives a finished result. It must be called without the session lock held.
func saveResult(ctx context.Context, logger *slog.Logger, recorder resultRecorder, result *entity.MatchResult) {
	if result == nil || recorder == nil {
		return
	}

	if err := recorder.Save(ctx, result); err != nil && !errors.Is(err, apperror.ErrArchiveDisabled) {
		logger.With("method", "saveResult").ErrorContext(ctx, "failed to save result", "error", err, "game", result.Game)
	}
}
