package tests

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
)

type capacityResponse struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	CapacityBytes int `json:"capacity_bytes"`
}

func encodeCoverPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCapacityByDimensions(t *testing.T) {

	// Arrange
	payload := map[string]any{"width": 100, "height": 100}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/exchange/capacity", payload, "")

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("capacity failed: status=%d message=%q", status, errEnv.Message)
	}
	var resp capacityResponse
	decodeSuccess(t, body, &resp)
	// 30000 channel bits minus framing overhead, in whole bytes.
	if resp.CapacityBytes != 3729 {
		t.Fatalf("capacity = %d, want 3729", resp.CapacityBytes)
	}
}

func TestCapacityByImage(t *testing.T) {

	// Arrange
	cover := encodeCoverPNG(t, 64, 48)
	payload := map[string]any{"image": base64.StdEncoding.EncodeToString(cover)}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/exchange/capacity", payload, "")

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("capacity failed: status=%d message=%q", status, errEnv.Message)
	}
	var resp capacityResponse
	decodeSuccess(t, body, &resp)
	if resp.Width != 64 || resp.Height != 48 {
		t.Fatalf("dimensions = %dx%d, want 64x48", resp.Width, resp.Height)
	}
}

func TestCapacityRejectsGarbageImage(t *testing.T) {

	// Arrange
	payload := map[string]any{"image": base64.StdEncoding.EncodeToString([]byte("not a png"))}

	// Act
	status, _ := doJSON(t, http.MethodPost, "/api/v1/exchange/capacity", payload, "")

	// Assert
	if status == http.StatusOK {
		t.Fatalf("expected failure for non-PNG payload")
	}
}
