package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	envelopeVersion = 1

	keyLen       = 32
	nonceLen     = 12
	legacyIVLen  = 16
	saltLen      = 32
	gcmTagLen    = 16
	kdfIteration = 100_000
)

// legacyAAD is the associated data the first envelope generation bound its
// ciphertexts to. Current envelopes use no AAD; decrypt retries against
// this value so old ephemeral envelopes stay readable.
var legacyAAD = []byte("STEGO_V1")

// Cipher seals and opens payload envelopes with AES-256-GCM.
type Cipher struct{}

// NewCipher constructs a Cipher.
func NewCipher() *Cipher {
	return &Cipher{}
}

// EncryptEphemeral seals plaintext under a fresh random 256-bit key and
// returns an envelope that carries the key. This is obfuscation, not
// secrecy: whoever can read the envelope can read the key.
func (c *Cipher) EncryptEphemeral(plaintext []byte) (*Envelope, error) {
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("crypt: key generation failed: %w", err)
	}

	env, err := c.seal(key, plaintext)
	if err != nil {
		return nil, err
	}

	env.Key = key
	return env, nil
}

// EncryptWithPassword seals plaintext under a key derived from password
// with PBKDF2-SHA256 and a random per-message salt. The salt travels in
// the envelope; the key never does.
func (c *Cipher) EncryptWithPassword(plaintext []byte, password string) (*Envelope, error) {
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("crypt: salt generation failed: %w", err)
	}

	env, err := c.seal(deriveKey(password, salt), plaintext)
	if err != nil {
		return nil, err
	}

	env.Salt = salt
	return env, nil
}

// Decrypt opens an envelope. Ephemeral envelopes decrypt with their
// embedded key, retrying against the legacy associated data when the
// current framing fails. Password-derived envelopes require password.
// Every tag mismatch surfaces as ErrAuthenticationFailed.
func (c *Cipher) Decrypt(env *Envelope, password string) ([]byte, error) {
	if env == nil || len(env.IV) == 0 || len(env.AuthTag) != gcmTagLen || len(env.Data) == 0 {
		return nil, ErrInvalidEnvelope
	}

	switch env.Mode() {
	case ModeEphemeral:
		plain, err := c.open(env.Key, env, nil)
		if err == nil {
			return plain, nil
		}
		return c.open(env.Key, env, legacyAAD)

	default:
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if len(env.Salt) == 0 {
			return nil, ErrInvalidEnvelope
		}
		return c.open(deriveKey(password, env.Salt), env, nil)
	}
}

func (c *Cipher) seal(key, plaintext []byte) (*Envelope, error) {
	gcm, err := newGCM(key, nonceLen)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("crypt: nonce generation failed: %w", err)
	}

	// Seal appends the tag to the ciphertext; the wire format keeps them
	// in separate fields.
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - gcmTagLen

	return &Envelope{
		Version: envelopeVersion,
		IV:      nonce,
		AuthTag: sealed[split:],
		Data:    sealed[:split],
	}, nil
}

func (c *Cipher) open(key []byte, env *Envelope, aad []byte) ([]byte, error) {
	// Version 0 envelopes predate the 12-byte nonce and used a 16-byte IV.
	// They are accepted on decrypt only.
	wantIV := nonceLen
	if env.Version == 0 {
		wantIV = legacyIVLen
	}
	if len(env.IV) != wantIV {
		return nil, ErrInvalidEnvelope
	}

	gcm, err := newGCM(key, len(env.IV))
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(env.Data)+gcmTagLen)
	sealed = append(sealed, env.Data...)
	sealed = append(sealed, env.AuthTag...)

	plain, err := gcm.Open(nil, env.IV, sealed, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plain, nil
}

func newGCM(key []byte, nonceSize int) (cipher.AEAD, error) {
	if len(key) != keyLen {
		return nil, fmt.Errorf("crypt: invalid key length %d (want %d for AES-256)", len(key), keyLen)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypt: aes init failed: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("crypt: gcm init failed: %w", err)
	}
	return gcm, nil
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, kdfIteration, keyLen, sha256.New)
}
