package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pixelveil/pixelveil/internal/pkg/stego"
)

func coverPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	p := stego.NewPixelBuffer(w, h)
	for i := range p.Pix {
		p.Pix[i] = byte(i*13 + 5)
	}

	data, err := stego.EncodePNG(p)
	if err != nil {
		t.Fatalf("cover: %v", err)
	}
	return data
}

func requestOtp(t *testing.T, h *testHarness, purpose string) {
	t.Helper()
	if _, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{
		Identity: "alice@example.com",
		Purpose:  purpose,
	}); err != nil {
		t.Fatalf("otp request: %v", err)
	}
}

func TestSendAndDecodeRoundTrip(t *testing.T) {

	t.Run("EphemeralMessage", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		// Act
		sent, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: coverPNG(t, 120, 120),
			Message:    "meet me at the usual place",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		requestOtp(t, h, "decode")
		got, err := h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: sent.Image,
		})

		// Assert
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got.Payload) != "meet me at the usual place" {
			t.Fatalf("payload = %q", got.Payload)
		}
		if got.Kind != PayloadKindText {
			t.Fatalf("kind = %q, want text", got.Kind)
		}
		if sent.ImageURL == "" {
			t.Fatalf("expected a hosted image url")
		}
		if len(h.messaging.sends) != 1 || len(h.messaging.decodes) != 1 {
			t.Fatalf("events = %d sends, %d decodes", len(h.messaging.sends), len(h.messaging.decodes))
		}
	})

	t.Run("PasswordProtectedMessage", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		sent, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: coverPNG(t, 120, 120),
			Message:    "for your eyes only",
			Password:   "correct horse",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		// Act / Assert: no password
		requestOtp(t, h, "decode")
		_, err = h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: sent.Image,
		})
		if err == nil || !strings.Contains(err.Error(), "password is required") {
			t.Fatalf("missing password: %v", err)
		}

		// Act / Assert: wrong password
		requestOtp(t, h, "decode")
		_, err = h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: sent.Image,
			Password:   "battery staple",
		})
		if err == nil || !strings.Contains(err.Error(), "decryption failed") {
			t.Fatalf("wrong password: %v", err)
		}

		// Act / Assert: correct password
		requestOtp(t, h, "decode")
		got, err := h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: sent.Image,
			Password:   "correct horse",
		})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got.Payload) != "for your eyes only" {
			t.Fatalf("payload = %q", got.Payload)
		}
	})

	t.Run("SecretImageInsideCover", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")
		secret := coverPNG(t, 8, 8)

		// Act
		sent, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:    "alice@example.com",
			Otp:         "135791",
			CoverImage:  coverPNG(t, 200, 200),
			SecretImage: secret,
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		requestOtp(t, h, "decode")
		got, err := h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: sent.Image,
		})

		// Assert
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Kind != PayloadKindImage {
			t.Fatalf("kind = %q, want image", got.Kind)
		}
		if string(got.Payload) != string(secret) {
			t.Fatalf("secret image did not survive the round trip")
		}
	})

	t.Run("DecodeByImageKey", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		if _, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: coverPNG(t, 120, 120),
			Message:    "fetched from storage",
		}); err != nil {
			t.Fatalf("send: %v", err)
		}

		// Act
		requestOtp(t, h, "decode")
		got, err := h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity: "alice@example.com",
			Otp:      "135791",
			ImageKey: "0123456789abcdef.png",
		})

		// Assert
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got.Payload) != "fetched from storage" {
			t.Fatalf("payload = %q", got.Payload)
		}
	})
}

func TestSendFailures(t *testing.T) {

	t.Run("MessageTooLargeForCover", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		// Act
		_, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: coverPNG(t, 10, 10),
			Message:    strings.Repeat("x", 4096),
		})

		// Assert
		if err == nil || !strings.Contains(err.Error(), "too large") {
			t.Fatalf("expected capacity error, got %v", err)
		}
	})

	t.Run("FailureAfterVerifyConsumesPasscode", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		// Act: garbage cover fails after the passcode is consumed.
		_, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: []byte("not a png at all"),
			Message:    "lost cause",
		})
		if err == nil {
			t.Fatalf("expected decode failure for garbage cover")
		}

		_, retry := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: coverPNG(t, 120, 120),
			Message:    "second try",
		})

		// Assert: the passcode does not survive the failed attempt.
		if retry == nil {
			t.Fatalf("retry with a consumed passcode must fail")
		}
	})

	t.Run("MessageAndSecretImageAreExclusive", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		// Act
		_, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:    "alice@example.com",
			Otp:         "135791",
			CoverImage:  coverPNG(t, 120, 120),
			Message:     "both",
			SecretImage: coverPNG(t, 8, 8),
		})

		// Assert
		if err == nil {
			t.Fatalf("expected mutual exclusion error")
		}
	})
}

func TestDecodeStructuralFallback(t *testing.T) {

	t.Run("PlainPayloadReturnedAsIs", func(t *testing.T) {

		// Arrange: an image embedded by an older tool that framed raw
		// plaintext without an envelope.
		h := newHarness(t)

		carrier, err := stego.DecodePNG(coverPNG(t, 60, 60))
		if err != nil {
			t.Fatalf("decode cover: %v", err)
		}
		framer := stego.NewFramer()
		codec := stego.NewBitCodec()
		embedded, err := codec.Embed(carrier, framer.Frame([]byte("legacy plaintext payload")))
		if err != nil {
			t.Fatalf("embed: %v", err)
		}
		image, err := stego.EncodePNG(embedded)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		// Act
		requestOtp(t, h, "decode")
		got, err := h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: image,
		})

		// Assert
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got.Payload) != "legacy plaintext payload" {
			t.Fatalf("payload = %q", got.Payload)
		}
		if got.Kind != PayloadKindText {
			t.Fatalf("kind = %q, want text", got.Kind)
		}
	})

	t.Run("CleanImageIsNotSteganographic", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "decode")

		// Act
		_, err := h.uc.DecodeSecurely(context.Background(), DecodeSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			StegoImage: coverPNG(t, 60, 60),
		})

		// Assert
		if err == nil || !strings.Contains(err.Error(), "does not contain") {
			t.Fatalf("expected not-steganographic error, got %v", err)
		}
	})
}

func TestCapacityAndProbe(t *testing.T) {

	t.Run("CapacityFromDimensions", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		out, err := h.uc.Capacity(context.Background(), CapacityInput{Width: 100, Height: 100})

		// Assert
		if err != nil {
			t.Fatalf("capacity: %v", err)
		}
		if out.CapacityBytes != stego.CapacityBytes(100, 100) {
			t.Fatalf("capacity = %d", out.CapacityBytes)
		}
	})

	t.Run("CapacityFromImage", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		out, err := h.uc.Capacity(context.Background(), CapacityInput{Image: coverPNG(t, 64, 48)})

		// Assert
		if err != nil {
			t.Fatalf("capacity: %v", err)
		}
		if out.Width != 64 || out.Height != 48 {
			t.Fatalf("dimensions = %dx%d", out.Width, out.Height)
		}
	})

	t.Run("ProbeDetectsHiddenPayload", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		requestOtp(t, h, "send")

		sent, err := h.uc.SendSecurely(context.Background(), SendSecurelyInput{
			Identity:   "alice@example.com",
			Otp:        "135791",
			CoverImage: coverPNG(t, 120, 120),
			Message:    "find me",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		// Act
		hot, err := h.uc.Probe(context.Background(), ProbeInput{Image: sent.Image})
		if err != nil {
			t.Fatalf("probe stego: %v", err)
		}
		cold, err := h.uc.Probe(context.Background(), ProbeInput{Image: coverPNG(t, 120, 120)})
		if err != nil {
			t.Fatalf("probe clean: %v", err)
		}

		// Assert
		if !hot.Steganographic {
			t.Fatalf("stego image not detected")
		}
		if cold.Steganographic {
			t.Fatalf("clean image misdetected")
		}
	})
}

func TestSweepExpired(t *testing.T) {

	// Arrange
	h := newHarness(t)
	requestOtp(t, h, "send")
	requestOtp(t, h, "decode")
	h.clock.advance(10 * time.Minute)

	// Act
	if err := h.uc.SweepExpired(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	// Assert
	if h.repo.count() != 0 {
		t.Fatalf("challenge count after sweep = %d, want 0", h.repo.count())
	}
}
