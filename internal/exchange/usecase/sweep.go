package usecase

import (
	"context"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
)

// SweepExpired deletes challenges past their expiry. Expiry is already
// enforced at query time; the sweep just keeps the table from growing.
func (s *Usecase) SweepExpired(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer span.End()

	deleted, err := s.repoDB.DeleteExpiredChallenges(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired challenges", "error", err)
		return goerror.NewServer(err)
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "swept expired challenges", "deleted", deleted)
	}

	return nil
}
