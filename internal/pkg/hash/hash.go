package hash

// Hash defines the contract for hashing and verifying secrets.
type Hash interface {
	// Hash returns the hash of the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored hash.
	Verify(hashed, plaintext string) bool
}
