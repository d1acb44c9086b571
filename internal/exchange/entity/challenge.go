package entity

import "time"

// OtpChallenge is a single-use passcode gating one send or decode flow.
//
// Only the bcrypt hash of the code is stored; the plaintext exists just
// long enough to be delivered out of band.
type OtpChallenge struct {
	ID        int64
	Identity  string
	Purpose   ChallengePurpose
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
}

// Active reports whether the challenge can still be consumed at now.
func (c OtpChallenge) Active(now time.Time) bool {
	return !c.Used && c.ExpiresAt.After(now)
}
