package inbound

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeSecureSend(ctx context.Context, in usecase.ConsumeSecureSendInput) error
	ConsumeSecureDecode(ctx context.Context, in usecase.ConsumeSecureDecodeInput) error
}

type uc interface {
	ucConsumer

	ListReceipts(ctx context.Context, in usecase.ListReceiptsInput) ([]entity.Receipt, error)
}
