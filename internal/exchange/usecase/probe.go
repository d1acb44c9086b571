package usecase

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
)

type (
	ProbeInput struct {
		Image []byte `validate:"required"`
	}

	ProbeOutput struct {
		Steganographic bool
	}
)

// Probe reports whether an image carries a hidden payload, checking only
// the magic header. No passcode is required since nothing is revealed
// beyond presence.
func (s *Usecase) Probe(ctx context.Context, in ProbeInput) (*ProbeOutput, error) {
	ctx, span := s.startSpan(ctx, "Probe")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var found bool

	procCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSecond("modules.exchange.processing_timeout_seconds"))
	defer cancel()

	err := s.pool.Do(procCtx, func(ctx context.Context) error {
		carrier, err := stego.DecodePNG(in.Image)
		if err != nil {
			return err
		}

		found = stego.HasMagicPrefix(*s.codec, carrier)
		return nil
	})
	if err != nil {
		return nil, mapProcessingError(err)
	}

	return &ProbeOutput{Steganographic: found}, nil
}
