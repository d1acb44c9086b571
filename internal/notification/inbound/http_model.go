package inbound

import (
	"time"

	"github.com/pixelveil/pixelveil/internal/pkg/valueobject"
)

type ReceiptResponse struct {
	ID        int64               `json:"id"`
	Identity  string              `json:"identity"`
	Kind      string              `json:"kind"`
	Detail    valueobject.JSONMap `json:"detail"`
	CreatedAt time.Time           `json:"created_at"`
}

type ReceiptsResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
}
