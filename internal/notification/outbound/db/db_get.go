package db

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
)

const listReceipts = `
select id, identity, kind, detail, created_at
from notification_receipts
where identity = $1
order by created_at desc
limit $2 offset $3
`

func (s *DB) ListReceipts(ctx context.Context, identity string, limit, offset int32) (_ []entity.Receipt, err error) {
	ctx, span := s.startSpan(ctx, "ListReceipts")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listReceipts, identity, limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var items []entity.Receipt
	for rows.Next() {
		var (
			item entity.Receipt
			kind int16
		)
		if err = rows.Scan(&item.ID, &item.Identity, &kind, &item.Detail, &item.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		item.Kind = entity.ReceiptKind(kind)
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}
