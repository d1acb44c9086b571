package crypt

import "errors"

var (
	// ErrAuthenticationFailed indicates a GCM tag mismatch, covering wrong
	// password, wrong key, and tampered ciphertext without distinguishing them.
	ErrAuthenticationFailed = errors.New("crypt: authentication failed")
	// ErrPasswordRequired indicates a password-derived envelope was given
	// without a password.
	ErrPasswordRequired = errors.New("crypt: password required")
	// ErrPlaintextEmpty indicates an empty plaintext input.
	ErrPlaintextEmpty = errors.New("crypt: plaintext is empty")
	// ErrInvalidEnvelope indicates an envelope with malformed or missing fields.
	ErrInvalidEnvelope = errors.New("crypt: invalid envelope")
)
