package tests

import (
	"encoding/base64"
	"net/http"
	"testing"
)

func TestOtpRequestRejectsInvalidIdentity(t *testing.T) {

	// Arrange
	payload := map[string]string{"identity": "not-an-email"}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/exchange/send/otp", payload, "")

	// Assert
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	errEnv := decodeError(t, body)
	if errEnv.Message == "" {
		t.Fatalf("expected an error message")
	}
}

func TestSendRejectsUnknownPasscode(t *testing.T) {

	// Arrange: a well-formed request whose passcode was never issued.
	cover := encodeCoverPNG(t, 64, 64)
	payload := map[string]any{
		"identity":    "nobody@example.com",
		"otp":         "000000",
		"cover_image": base64.StdEncoding.EncodeToString(cover),
		"message":     "hello",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/exchange/send", payload, "")

	// Assert
	if status != http.StatusUnauthorized {
		errEnv := decodeError(t, body)
		t.Fatalf("status = %d message=%q, want 401", status, errEnv.Message)
	}
}

func TestDecodeRejectsMalformedOtp(t *testing.T) {

	// Arrange
	cover := encodeCoverPNG(t, 64, 64)
	payload := map[string]any{
		"identity":    "nobody@example.com",
		"otp":         "12ab56",
		"stego_image": base64.StdEncoding.EncodeToString(cover),
	}

	// Act
	status, _ := doJSON(t, http.MethodPost, "/api/v1/exchange/decode", payload, "")

	// Assert
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
}
