package crypt

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestEphemeralRoundTrip(t *testing.T) {
	c := NewCipher()

	t.Run("DecryptsWithoutPassword", func(t *testing.T) {

		// Arrange
		plaintext := []byte("the key travels with the message")

		// Act
		env, err := c.EncryptEphemeral(plaintext)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		got, err := c.Decrypt(env, "")

		// Assert
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("round trip mismatch: got %q", got)
		}
		if env.Mode() != ModeEphemeral {
			t.Fatalf("mode = %d, want ephemeral", env.Mode())
		}
	})

	t.Run("PasswordIgnoredWhenKeyPresent", func(t *testing.T) {

		// Arrange
		env, err := c.EncryptEphemeral([]byte("ignore me"))
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		// Act
		got, err := c.Decrypt(env, "irrelevant password")

		// Assert
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if string(got) != "ignore me" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("EmptyPlaintextRejected", func(t *testing.T) {
		if _, err := c.EncryptEphemeral(nil); !errors.Is(err, ErrPlaintextEmpty) {
			t.Fatalf("expected ErrPlaintextEmpty, got %v", err)
		}
	})
}

func TestPasswordRoundTrip(t *testing.T) {
	c := NewCipher()

	t.Run("CorrectPassword", func(t *testing.T) {

		// Arrange
		plaintext := []byte("derived, never stored")

		// Act
		env, err := c.EncryptWithPassword(plaintext, "hunter2")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		got, err := c.Decrypt(env, "hunter2")

		// Assert
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("round trip mismatch")
		}
		if len(env.Key) != 0 {
			t.Fatalf("password envelope must not carry a key")
		}
		if env.Mode() != ModePasswordDerived {
			t.Fatalf("mode = %d, want password derived", env.Mode())
		}
	})

	t.Run("WrongPasswordFailsAuthentication", func(t *testing.T) {

		// Arrange
		env, err := c.EncryptWithPassword([]byte("secret"), "correct horse")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		// Act
		_, err = c.Decrypt(env, "battery staple")

		// Assert
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
		}
	})

	t.Run("MissingPasswordRequired", func(t *testing.T) {

		// Arrange
		env, err := c.EncryptWithPassword([]byte("secret"), "pw")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		// Act
		_, err = c.Decrypt(env, "")

		// Assert
		if !errors.Is(err, ErrPasswordRequired) {
			t.Fatalf("expected ErrPasswordRequired, got %v", err)
		}
	})

	t.Run("SaltDiffersPerMessage", func(t *testing.T) {

		// Arrange / Act
		a, err := c.EncryptWithPassword([]byte("same plaintext"), "pw")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		b, err := c.EncryptWithPassword([]byte("same plaintext"), "pw")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		// Assert
		if bytes.Equal(a.Salt, b.Salt) {
			t.Fatalf("salt reused across messages")
		}
		if bytes.Equal(a.Data, b.Data) {
			t.Fatalf("identical ciphertext across messages")
		}
	})
}

func TestTamperDetection(t *testing.T) {
	c := NewCipher()

	env, err := c.EncryptEphemeral([]byte("tamper evident"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	t.Run("FlippedCiphertextBit", func(t *testing.T) {

		// Arrange
		bad := *env
		bad.Data = append([]byte(nil), env.Data...)
		bad.Data[0] ^= 1

		// Act / Assert
		if _, err := c.Decrypt(&bad, ""); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
		}
	})

	t.Run("FlippedTagBit", func(t *testing.T) {

		// Arrange
		bad := *env
		bad.AuthTag = append([]byte(nil), env.AuthTag...)
		bad.AuthTag[0] ^= 1

		// Act / Assert
		if _, err := c.Decrypt(&bad, ""); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
		}
	})
}

func TestLegacyCompatibility(t *testing.T) {
	c := NewCipher()

	t.Run("EphemeralWithLegacyAAD", func(t *testing.T) {

		// Arrange: an envelope sealed by the first generation, which bound
		// its ciphertext to associated data.
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			t.Fatalf("rand: %v", err)
		}
		env := sealWith(t, key, nonceLen, []byte("old wine"), legacyAAD)
		env.Key = key

		// Act
		got, err := c.Decrypt(env, "")

		// Assert
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if string(got) != "old wine" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("LegacySixteenByteIV", func(t *testing.T) {

		// Arrange: version 0 envelopes carried a 16-byte IV.
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			t.Fatalf("rand: %v", err)
		}
		env := sealWith(t, key, legacyIVLen, []byte("wide nonce"), nil)
		env.Version = 0
		env.Key = key

		// Act
		got, err := c.Decrypt(env, "")

		// Assert
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if string(got) != "wide nonce" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("CurrentVersionRejectsWideIV", func(t *testing.T) {

		// Arrange
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			t.Fatalf("rand: %v", err)
		}
		env := sealWith(t, key, legacyIVLen, []byte("x"), nil)
		env.Version = envelopeVersion
		env.Key = key

		// Act / Assert
		if _, err := c.Decrypt(env, ""); !errors.Is(err, ErrInvalidEnvelope) {
			t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
		}
	})
}

// sealWith builds an envelope the long way so tests can exercise framings
// the encryptor no longer produces.
func sealWith(t *testing.T, key []byte, ivLen int, plaintext, aad []byte) *Envelope {
	t.Helper()

	gcm, err := newGCM(key, ivLen)
	if err != nil {
		t.Fatalf("gcm: %v", err)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		t.Fatalf("rand: %v", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, aad)
	split := len(sealed) - gcmTagLen

	return &Envelope{
		Version: envelopeVersion,
		IV:      iv,
		AuthTag: sealed[split:],
		Data:    sealed[:split],
	}
}

func TestEnvelopeWire(t *testing.T) {
	c := NewCipher()

	t.Run("JSONRoundTripEphemeral", func(t *testing.T) {

		// Arrange
		env, err := c.EncryptEphemeral([]byte("over the wire"))
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		// Act
		raw, err := json.Marshal(env)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Envelope
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got, err := c.Decrypt(&back, "")

		// Assert
		if err != nil {
			t.Fatalf("decrypt after wire round trip: %v", err)
		}
		if string(got) != "over the wire" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("KeyFieldOmittedForPasswordMode", func(t *testing.T) {

		// Arrange
		env, err := c.EncryptWithPassword([]byte("no key on the wire"), "pw")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		// Act
		raw, err := json.Marshal(env)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		// Assert
		if strings.Contains(string(raw), `"key"`) {
			t.Fatalf("password envelope serialized a key field: %s", raw)
		}
		back, ok := ParseEnvelope(raw)
		if !ok {
			t.Fatalf("serialized envelope not recognized")
		}
		if back.Mode() != ModePasswordDerived {
			t.Fatalf("mode lost on the wire")
		}
	})
}

func TestParseEnvelope(t *testing.T) {

	t.Run("PlainTextIsNotAnEnvelope", func(t *testing.T) {
		if _, ok := ParseEnvelope([]byte("just a friendly note")); ok {
			t.Fatalf("plain text misdetected as envelope")
		}
	})

	t.Run("JSONWithoutCipherFieldsIsNotAnEnvelope", func(t *testing.T) {
		if _, ok := ParseEnvelope([]byte(`{"greeting":"hello"}`)); ok {
			t.Fatalf("arbitrary json misdetected as envelope")
		}
	})

	t.Run("NonHexFieldsRejected", func(t *testing.T) {
		if _, ok := ParseEnvelope([]byte(`{"iv":"zz","authTag":"zz","data":"zz"}`)); ok {
			t.Fatalf("non-hex envelope accepted")
		}
	})
}
