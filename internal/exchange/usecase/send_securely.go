package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/crypt"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
)

type (
	SendSecurelyInput struct {
		Identity    string `validate:"required,email"`
		Otp         string `validate:"required,len=6,numeric"`
		CoverImage  []byte `validate:"required"`
		Message     string
		SecretImage []byte
		Password    string
	}

	SendSecurelyOutput struct {
		Image    []byte
		ImageURL string
	}
)

// SendSecurely verifies the caller's passcode, encrypts the secret, and
// embeds it into the cover image. The passcode is consumed on successful
// verification; a failure later in the pipeline does not restore it, the
// caller must request a new one.
func (s *Usecase) SendSecurely(ctx context.Context, in SendSecurelyInput) (*SendSecurelyOutput, error) {
	ctx, span := s.startSpan(ctx, "SendSecurely")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Message == "" && len(in.SecretImage) == 0 {
		return nil, goerror.NewBusiness("message or secret image is required", goerror.CodeInvalidInput)
	}
	if in.Message != "" && len(in.SecretImage) > 0 {
		return nil, goerror.NewBusiness("provide either a message or a secret image, not both", goerror.CodeInvalidInput)
	}

	if err := s.consumeChallenge(ctx, in.Identity, entity.ChallengePurposeSend, in.Otp); err != nil {
		return nil, err
	}

	secret := []byte(in.Message)
	if len(in.SecretImage) > 0 {
		if !stego.IsPNG(in.SecretImage) {
			return nil, goerror.NewBusiness("secret image must be a valid PNG", goerror.CodeInvalidInput)
		}
		secret = in.SecretImage
	}

	var result []byte

	procCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSecond("modules.exchange.processing_timeout_seconds"))
	defer cancel()

	err := s.pool.Do(procCtx, func(ctx context.Context) error {
		cover, err := stego.DecodePNG(in.CoverImage)
		if err != nil {
			return err
		}

		// Cheap lower bound before any key derivation; the exact check
		// happens at embed time against the framed envelope.
		if len(secret) > stego.CapacityBytes(cover.Width, cover.Height) {
			return stego.ErrCapacityExceeded
		}

		envelope, err := s.encrypt(secret, in.Password)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(envelope)
		if err != nil {
			return err
		}

		stegoed, err := s.codec.Embed(cover, s.framer.Frame(payload))
		if err != nil {
			return err
		}

		result, err = stego.EncodePNG(stegoed)
		return err
	})
	if err != nil {
		return nil, mapProcessingError(err)
	}

	key := s.uuid.Generate() + ".png"
	url, err := s.repoBlob.Store(ctx, key, result, "image/png")
	if err != nil {
		slog.ErrorContext(ctx, "failed to store stego image", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishSecureSendCompleted(ctx, SecureSendEvent{
		Identity: in.Identity,
		ImageURL: url,
		Password: in.Password != "",
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish secure send completed", "identity", maskIdentity(in.Identity), "error", err)
	}

	return &SendSecurelyOutput{Image: result, ImageURL: url}, nil
}

func (s *Usecase) encrypt(secret []byte, password string) (*crypt.Envelope, error) {
	if password != "" {
		return s.cipher.EncryptWithPassword(secret, password)
	}
	return s.cipher.EncryptEphemeral(secret)
}
