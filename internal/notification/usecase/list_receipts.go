package usecase

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
)

type (
	ListReceiptsInput struct {
		Identity string `validate:"required,email"`
		Limit    int32  `validate:"omitempty,gte=1,lte=100"`
		Offset   int32  `validate:"omitempty,gte=0"`
	}
)

// ListReceipts returns recent exchange receipts for an identity, newest
// first.
func (s *Usecase) ListReceipts(ctx context.Context, in ListReceiptsInput) ([]entity.Receipt, error) {
	ctx, span := s.startSpan(ctx, "ListReceipts")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Limit == 0 {
		in.Limit = 20
	}

	return s.repoDB.ListReceipts(ctx, in.Identity, in.Limit, in.Offset)
}
