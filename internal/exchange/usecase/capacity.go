package usecase

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
)

type (
	CapacityInput struct {
		Image  []byte
		Width  int `validate:"omitempty,gt=0"`
		Height int `validate:"omitempty,gt=0"`
	}

	CapacityOutput struct {
		Width         int
		Height        int
		CapacityBytes int
	}
)

// Capacity reports how many payload bytes an image can carry, either
// from explicit dimensions or from an uploaded cover image, so callers
// can pick a cover before committing to a send.
func (s *Usecase) Capacity(ctx context.Context, in CapacityInput) (*CapacityOutput, error) {
	_, span := s.startSpan(ctx, "Capacity")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	width, height := in.Width, in.Height
	if len(in.Image) > 0 {
		cover, err := stego.DecodePNG(in.Image)
		if err != nil {
			return nil, mapProcessingError(err)
		}
		width, height = cover.Width, cover.Height
	}

	if width <= 0 || height <= 0 {
		return nil, goerror.NewBusiness("image or explicit dimensions are required", goerror.CodeInvalidInput)
	}

	return &CapacityOutput{
		Width:         width,
		Height:        height,
		CapacityBytes: stego.CapacityBytes(width, height),
	}, nil
}
