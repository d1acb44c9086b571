// Package crypt implements the AES-256-GCM envelope cipher for hidden
// payloads.
//
// Two key modes exist. Ephemeral mode generates a random per-message key
// and carries it inside the envelope, which hides the plaintext from
// casual inspection only; anyone holding the envelope holds the key.
// Password mode derives the key from a user password with PBKDF2 and a
// random per-message salt, and never stores key material.
package crypt
