package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pixelveil/pixelveil/internal/notification/entity"
)

const updateDeliveryLogStatus = `
update notification_delivery_logs
set status = $1, provider_response = $2, next_retry_at = $3, updated_at = now()
where id = $4
`

func (s *DB) UpdateDeliveryLogStatus(ctx context.Context, u entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLogStatus")
	defer func() { s.endSpan(span, err) }()

	var next pgtype.Timestamptz
	if u.NextRetryAt != nil {
		next = pgtype.Timestamptz{Time: *u.NextRetryAt, Valid: true}
	}

	_, err = s.conn.Exec(ctx, updateDeliveryLogStatus, int16(u.Status), u.ProviderResponse, next, u.ID)
	return s.mapError(err)
}
