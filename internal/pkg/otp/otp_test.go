package otp

import (
	"testing"

	"github.com/pquerna/otp"
)

func TestNumericCode(t *testing.T) {

	t.Run("SixDigits", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(otp.DigitsSix)

		// Act
		code, err := gen.Code()

		// Assert
		if err != nil {
			t.Fatalf("code: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has %d digits, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
	})

	t.Run("InvalidDigitsFallsBackToSix", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(otp.Digits(11))

		// Act
		code, err := gen.Code()

		// Assert
		if err != nil {
			t.Fatalf("code: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has %d digits, want 6", code, len(code))
		}
	})

	t.Run("CodesVary", func(t *testing.T) {

		// Arrange
		gen := NewNumeric(otp.DigitsSix)

		// Act
		seen := make(map[string]struct{})
		for range 20 {
			code, err := gen.Code()
			if err != nil {
				t.Fatalf("code: %v", err)
			}
			seen[code] = struct{}{}
		}

		// Assert: one collision in twenty is plausible, all equal is not.
		if len(seen) < 2 {
			t.Fatalf("generator produced a constant code")
		}
	})
}
