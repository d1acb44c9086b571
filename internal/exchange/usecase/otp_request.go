package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
)

type (
	OtpRequestInput struct {
		Identity string `validate:"required,email"`
		Purpose  string `validate:"required,oneof=send decode"`
	}

	OtpRequestOutput struct {
		MaskedIdentity string
	}
)

// OtpRequest opens a fresh challenge for the identity and purpose and
// delivers its passcode out of band. Any previous challenge for the same
// pair is discarded first, so at most one is ever active.
func (s *Usecase) OtpRequest(ctx context.Context, in OtpRequestInput) (*OtpRequestOutput, error) {
	ctx, span := s.startSpan(ctx, "OtpRequest")
	defer span.End()

	in.Identity = strings.TrimSpace(strings.ToLower(in.Identity))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.ParseChallengePurpose(in.Purpose)

	if err := s.repoDB.DeleteChallengeByIdentityPurpose(ctx, in.Identity, purpose); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete previous challenge", "identity", maskIdentity(in.Identity), "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.passcode.Code()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.bcrypt.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	challenge := entity.OtpChallenge{
		ID:        s.uid.Generate(),
		Identity:  in.Identity,
		Purpose:   purpose,
		CodeHash:  string(codeHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetMinute("modules.exchange.otp_ttl_minutes")),
	}

	if err := s.repoDB.CreateChallenge(ctx, challenge); err != nil {
		slog.ErrorContext(ctx, "failed to repo create challenge", "identity", maskIdentity(in.Identity), "error", err)
		return nil, goerror.NewServer(err)
	}

	// A challenge whose code never reached the user must not stay active;
	// roll it back and surface the delivery failure.
	if err := s.repoMailer.SendPasscode(ctx, in.Identity, code, purpose); err != nil {
		slog.ErrorContext(ctx, "failed to deliver passcode", "identity", maskIdentity(in.Identity), "error", err)

		if delErr := s.repoDB.DeleteChallenge(ctx, challenge.ID); delErr != nil {
			slog.ErrorContext(ctx, "failed to roll back undeliverable challenge", "challenge_id", challenge.ID, "error", delErr)
		}

		return nil, goerror.NewBusiness("failed to deliver passcode", goerror.CodeInternal)
	}

	return &OtpRequestOutput{MaskedIdentity: maskIdentity(in.Identity)}, nil
}
