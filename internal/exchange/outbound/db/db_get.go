package db

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
)

// At most one challenge exists per (identity, purpose) since a new
// request deletes its predecessors; the ordering is belt and braces.
const getLatestChallenge = `
select id, identity, purpose, code_hash, expires_at, used
from exchange_otp_challenges
where identity = $1 and purpose = $2
order by expires_at desc
limit 1`

func (s *DB) GetLatestChallenge(ctx context.Context, identity string, p entity.ChallengePurpose) (out *entity.OtpChallenge, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestChallenge")
	defer func() { s.endSpan(span, err) }()

	var (
		challenge entity.OtpChallenge
		purpose   int16
	)
	err = s.conn.QueryRow(ctx, getLatestChallenge, identity, int16(p)).
		Scan(&challenge.ID, &challenge.Identity, &purpose, &challenge.CodeHash, &challenge.ExpiresAt, &challenge.Used)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	challenge.Purpose = entity.ChallengePurpose(purpose)
	return &challenge, nil
}
