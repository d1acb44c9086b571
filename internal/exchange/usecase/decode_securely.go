package usecase

import (
	"context"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/crypt"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
)

// PayloadKind tells the caller how to render a recovered payload.
const (
	PayloadKindText  = "text"
	PayloadKindImage = "image"
)

type (
	DecodeSecurelyInput struct {
		Identity   string `validate:"required,email"`
		Otp        string `validate:"required,len=6,numeric"`
		StegoImage []byte
		ImageKey   string
		Password   string
	}

	DecodeSecurelyOutput struct {
		Payload []byte
		Kind    string
	}
)

// DecodeSecurely verifies the caller's passcode, extracts the framed
// payload, and decrypts it. Whether the payload is an encrypted envelope
// or already-plaintext is decided structurally: bytes that parse as an
// envelope are decrypted, anything else is returned as-is.
func (s *Usecase) DecodeSecurely(ctx context.Context, in DecodeSecurelyInput) (*DecodeSecurelyOutput, error) {
	ctx, span := s.startSpan(ctx, "DecodeSecurely")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if len(in.StegoImage) == 0 && in.ImageKey == "" {
		return nil, goerror.NewBusiness("stego image or image key is required", goerror.CodeInvalidInput)
	}

	if err := s.consumeChallenge(ctx, in.Identity, entity.ChallengePurposeDecode, in.Otp); err != nil {
		return nil, err
	}

	image := in.StegoImage
	if len(image) == 0 {
		fetched, err := s.repoBlob.Fetch(ctx, in.ImageKey)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch stego image", "key", in.ImageKey, "error", err)
			return nil, goerror.NewServer(err)
		}
		image = fetched
	}

	var plain []byte

	procCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSecond("modules.exchange.processing_timeout_seconds"))
	defer cancel()

	err := s.pool.Do(procCtx, func(ctx context.Context) error {
		carrier, err := stego.DecodePNG(image)
		if err != nil {
			return err
		}

		payload, err := s.extractPayload(carrier)
		if err != nil {
			return err
		}

		envelope, ok := crypt.ParseEnvelope(payload)
		if !ok {
			// Not an envelope at all; the embedded bytes are the message.
			plain = payload
			return nil
		}

		plain, err = s.cipher.Decrypt(envelope, in.Password)
		return err
	})
	if err != nil {
		return nil, mapProcessingError(err)
	}

	kind := PayloadKindText
	if stego.IsPNG(plain) {
		kind = PayloadKindImage
	}

	if err := s.repoMessaging.PublishSecureDecodeCompleted(ctx, SecureDecodeEvent{
		Identity: in.Identity,
		Kind:     kind,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish secure decode completed", "identity", maskIdentity(in.Identity), "error", err)
	}

	return &DecodeSecurelyOutput{Payload: plain, Kind: kind}, nil
}

// extractPayload pulls every usable bit out of the carrier and lets the
// framer validate magic, length, and delimiter.
func (s *Usecase) extractPayload(carrier *stego.PixelBuffer) ([]byte, error) {
	usableBits := 3 * carrier.Width * carrier.Height

	bits, err := s.codec.Extract(carrier, usableBits)
	if err != nil {
		return nil, err
	}

	return s.framer.Parse(bits, stego.CapacityBytes(carrier.Width, carrier.Height))
}
