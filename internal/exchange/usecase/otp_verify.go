package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
)

// consumeChallenge verifies the candidate code against the active
// challenge for (identity, purpose) and atomically marks it used.
//
// A wrong code does not consume the challenge; the caller may retry
// until expiry. A correct code consumes it exactly once, even under
// concurrent verification, and anything the caller does afterwards
// cannot un-consume it.
func (s *Usecase) consumeChallenge(ctx context.Context, identity string, purpose entity.ChallengePurpose, code string) error {
	now := s.clock.Now()

	challenge, err := s.repoDB.GetLatestChallenge(ctx, identity, purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("passcode is invalid or has expired", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get latest challenge", "identity", maskIdentity(identity), "error", err)
		return goerror.NewServer(err)
	}

	if challenge.Used {
		return goerror.NewBusiness("passcode has already been used", goerror.CodeConflict)
	}
	if !challenge.ExpiresAt.After(now) {
		return goerror.NewBusiness("passcode is invalid or has expired", goerror.CodeUnauthorized)
	}

	if !s.bcrypt.Verify(challenge.CodeHash, code) {
		return goerror.NewBusiness("passcode is incorrect", goerror.CodeUnauthorized)
	}

	consumed, err := s.repoDB.ConsumeChallenge(ctx, challenge.ID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume challenge", "challenge_id", challenge.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !consumed {
		// Lost the race to a concurrent verify, or expired between read
		// and consume.
		return goerror.NewBusiness("passcode has already been used", goerror.CodeConflict)
	}

	return nil
}
