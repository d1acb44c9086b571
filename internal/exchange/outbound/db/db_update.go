package db

import (
	"context"
	"time"
)

// The conditional update is what makes consumption atomic: of two
// concurrent consumers exactly one sees RowsAffected() == 1.
const consumeChallenge = `
update exchange_otp_challenges
set used = true
where id = $1 and used = false and expires_at > $2`

func (s *DB) ConsumeChallenge(ctx context.Context, id int64, now time.Time) (consumed bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeChallenge")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, consumeChallenge, id, now)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
