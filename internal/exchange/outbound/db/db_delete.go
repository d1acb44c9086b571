package db

import (
	"context"
	"time"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
)

const deleteChallenge = `delete from exchange_otp_challenges where id = $1`

func (s *DB) DeleteChallenge(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, deleteChallenge, id)
	err = s.mapError(err)
	return err
}

const deleteChallengeByIdentityPurpose = `
delete from exchange_otp_challenges where identity = $1 and purpose = $2`

func (s *DB) DeleteChallengeByIdentityPurpose(ctx context.Context, identity string, p entity.ChallengePurpose) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteChallengeByIdentityPurpose")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, deleteChallengeByIdentityPurpose, identity, int16(p))
	err = s.mapError(err)
	return err
}

const deleteExpiredChallenges = `delete from exchange_otp_challenges where expires_at <= $1`

func (s *DB) DeleteExpiredChallenges(ctx context.Context, before time.Time) (deleted int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredChallenges")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deleteExpiredChallenges, before)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}
