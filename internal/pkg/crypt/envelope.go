package crypt

import (
	"encoding/hex"
	"encoding/json"
)

// Mode identifies how the envelope's key is obtained.
type Mode int

const (
	// ModeEphemeral carries a random per-message key inside the envelope.
	ModeEphemeral Mode = iota + 1
	// ModePasswordDerived derives the key from a password and the stored salt.
	ModePasswordDerived
)

// Envelope is the authenticated-encryption container embedded in images.
//
// All fields hold raw bytes; hex encoding happens only at the JSON
// boundary. The presence of Key is the mode discriminant on the wire,
// kept for compatibility with envelopes already in circulation.
type Envelope struct {
	// Version is 0 for legacy envelopes with a 16-byte IV, 1 for current
	// envelopes with a 12-byte GCM nonce.
	Version int
	Key     []byte
	Salt    []byte
	IV      []byte
	AuthTag []byte
	Data    []byte
}

// Mode reports the key mode based on key presence.
func (e *Envelope) Mode() Mode {
	if len(e.Key) > 0 {
		return ModeEphemeral
	}
	return ModePasswordDerived
}

type envelopeWire struct {
	Version int    `json:"v,omitempty"`
	Key     string `json:"key,omitempty"`
	Salt    string `json:"salt,omitempty"`
	IV      string `json:"iv"`
	AuthTag string `json:"authTag"`
	Data    string `json:"data"`
}

// MarshalJSON serializes the envelope with hex-encoded binary fields.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeWire{
		Version: e.Version,
		Key:     hex.EncodeToString(e.Key),
		Salt:    hex.EncodeToString(e.Salt),
		IV:      hex.EncodeToString(e.IV),
		AuthTag: hex.EncodeToString(e.AuthTag),
		Data:    hex.EncodeToString(e.Data),
	})
}

// UnmarshalJSON parses the hex wire form back into raw bytes.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return ErrInvalidEnvelope
	}

	parsed, err := wireToEnvelope(w)
	if err != nil {
		return err
	}

	*e = *parsed
	return nil
}

func wireToEnvelope(w envelopeWire) (*Envelope, error) {
	if w.IV == "" || w.AuthTag == "" || w.Data == "" {
		return nil, ErrInvalidEnvelope
	}

	e := &Envelope{Version: w.Version}
	for _, f := range []struct {
		src string
		dst *[]byte
	}{
		{w.Key, &e.Key},
		{w.Salt, &e.Salt},
		{w.IV, &e.IV},
		{w.AuthTag, &e.AuthTag},
		{w.Data, &e.Data},
	} {
		if f.src == "" {
			continue
		}
		b, err := hex.DecodeString(f.src)
		if err != nil {
			return nil, ErrInvalidEnvelope
		}
		*f.dst = b
	}

	return e, nil
}

// ParseEnvelope probes payload structurally and returns the envelope when
// it has the expected shape. The second return is false for anything that
// is not an envelope, which callers treat as already-plaintext.
func ParseEnvelope(payload []byte) (*Envelope, bool) {
	var w envelopeWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, false
	}

	e, err := wireToEnvelope(w)
	if err != nil {
		return nil, false
	}

	return e, true
}
