package otp

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// Generator defines the contract for one-time passcode generation.
type Generator interface {
	// Code returns a fresh numeric passcode.
	Code() (string, error)
}

// Numeric generates uniformly distributed numeric passcodes by running
// HOTP over a fresh random secret, so every code is independent of every
// other.
type Numeric struct {
	digits otp.Digits
}

// NewNumeric constructs a Numeric generator.
//
// If digits is not 6 or 8, it falls back to 6 digits.
func NewNumeric(digits otp.Digits) *Numeric {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	return &Numeric{digits: digits}
}

// Code returns a fresh numeric passcode.
func (n *Numeric) Code() (string, error) {
	secret := make([]byte, 20) // RFC 4226 recommendation
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("otp: secret generation failed: %w", err)
	}

	code, err := hotp.GenerateCodeCustom(base32.StdEncoding.EncodeToString(secret), 0, hotp.ValidateOpts{
		Digits:    n.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("otp: code generation failed: %w", err)
	}

	return code, nil
}
