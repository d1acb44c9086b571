package entity

import (
	"time"

	"github.com/pixelveil/pixelveil/internal/pkg/valueobject"
)

// Receipt records that an exchange operation completed for an identity
// and that a confirmation was (or should have been) mailed out.
type Receipt struct {
	ID        int64
	Identity  string
	Kind      ReceiptKind
	Detail    valueobject.JSONMap
	CreatedAt time.Time
}

type CreateReceipt struct {
	ID       int64
	Identity string
	Kind     ReceiptKind
	Detail   valueobject.JSONMap
}

type CreateDeliveryLog struct {
	ReceiptID int64
	Channel   Channel
	Status    DeliveryStatus
}

type UpdateDeliveryLog struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
}

// Template is an email template bound to a trigger key. Bodies are
// html/template sources rendered with per-trigger data.
type Template struct {
	TriggerKey TriggerKey
	Subject    string
	Body       string
}
