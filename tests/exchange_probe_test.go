package tests

import (
	"encoding/base64"
	"net/http"
	"testing"
)

type probeResponse struct {
	Steganographic bool `json:"steganographic"`
}

func TestProbeCleanImage(t *testing.T) {

	// Arrange
	cover := encodeCoverPNG(t, 80, 80)
	payload := map[string]any{"image": base64.StdEncoding.EncodeToString(cover)}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/exchange/probe", payload, "")

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("probe failed: status=%d message=%q", status, errEnv.Message)
	}
	var resp probeResponse
	decodeSuccess(t, body, &resp)
	if resp.Steganographic {
		t.Fatalf("clean image reported as steganographic")
	}
}

func TestProbeRequiresImage(t *testing.T) {

	// Act
	status, _ := doJSON(t, http.MethodPost, "/api/v1/exchange/probe", map[string]any{}, "")

	// Assert
	if status == http.StatusOK {
		t.Fatalf("expected validation failure for missing image")
	}
}
