package db

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
)

const createChallenge = `
insert into exchange_otp_challenges (id, identity, purpose, code_hash, expires_at, used)
values ($1, $2, $3, $4, $5, false)`

func (s *DB) CreateChallenge(ctx context.Context, in entity.OtpChallenge) (err error) {
	ctx, span := s.startSpan(ctx, "CreateChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createChallenge, in.ID, in.Identity, int16(in.Purpose), in.CodeHash, in.ExpiresAt)
	err = s.mapError(err)
	return err
}
