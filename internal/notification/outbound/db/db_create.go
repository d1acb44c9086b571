package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/pixelveil/pixelveil/internal/notification/entity"
)

const createReceipt = `
insert into notification_receipts (id, identity, kind, detail, created_at)
values ($1, $2, $3, $4, now())
`

const createDeliveryLog = `
insert into notification_delivery_logs (receipt_id, channel, status)
values ($1, $2, $3)
returning id
`

// CreateReceiptWithDeliveryLog writes the receipt and its first delivery
// log in one transaction and returns the log id.
func (s *DB) CreateReceiptWithDeliveryLog(ctx context.Context, r entity.CreateReceipt, dl entity.CreateDeliveryLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateReceiptWithDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, createReceipt, r.ID, r.Identity, int16(r.Kind), r.Detail); err != nil {
		return 0, s.mapError(err)
	}

	var logID int64
	if err = tx.QueryRow(ctx, createDeliveryLog, dl.ReceiptID, int16(dl.Channel), int16(dl.Status)).Scan(&logID); err != nil {
		return 0, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return logID, nil
}
