package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
)

func TestOtpRequest(t *testing.T) {

	t.Run("DeliversCodeAndMasksIdentity", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		out, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{
			Identity: "alice@example.com",
			Purpose:  "send",
		})

		// Assert
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if out.MaskedIdentity != "a***e@example.com" {
			t.Fatalf("masked identity = %q", out.MaskedIdentity)
		}
		if h.mailer.code() != "135791" {
			t.Fatalf("mailer got code %q", h.mailer.code())
		}
		if h.repo.count() != 1 {
			t.Fatalf("challenge count = %d, want 1", h.repo.count())
		}
	})

	t.Run("DeliveryFailureRollsBackChallenge", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		h.mailer.fail = true

		// Act
		_, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{
			Identity: "alice@example.com",
			Purpose:  "send",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected delivery failure to surface")
		}
		if h.repo.count() != 0 {
			t.Fatalf("undeliverable challenge left active, count = %d", h.repo.count())
		}
	})

	t.Run("NewRequestReplacesPrevious", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		in := OtpRequestInput{Identity: "alice@example.com", Purpose: "send"}

		// Act
		if _, err := h.uc.OtpRequest(context.Background(), in); err != nil {
			t.Fatalf("first request: %v", err)
		}
		if _, err := h.uc.OtpRequest(context.Background(), in); err != nil {
			t.Fatalf("second request: %v", err)
		}

		// Assert
		if h.repo.count() != 1 {
			t.Fatalf("challenge count = %d, want 1", h.repo.count())
		}
	})

	t.Run("SendAndDecodePurposesAreIndependent", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		if _, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{Identity: "alice@example.com", Purpose: "send"}); err != nil {
			t.Fatalf("send request: %v", err)
		}
		if _, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{Identity: "alice@example.com", Purpose: "decode"}); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		// Assert
		if h.repo.count() != 2 {
			t.Fatalf("challenge count = %d, want 2", h.repo.count())
		}
	})

	t.Run("RejectsUnknownPurpose", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{
			Identity: "alice@example.com",
			Purpose:  "admin",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected validation error")
		}
	})
}

func TestConsumeChallenge(t *testing.T) {

	request := func(t *testing.T, h *testHarness, purpose string) {
		t.Helper()
		if _, err := h.uc.OtpRequest(context.Background(), OtpRequestInput{
			Identity: "alice@example.com",
			Purpose:  purpose,
		}); err != nil {
			t.Fatalf("request: %v", err)
		}
	}

	t.Run("SingleUse", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		request(t, h, "send")

		// Act
		first := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "135791")
		second := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "135791")

		// Assert
		if first != nil {
			t.Fatalf("first verify: %v", first)
		}
		if second == nil {
			t.Fatalf("second verify must fail")
		}
		if second.Error() != "passcode has already been used" {
			t.Fatalf("second verify = %q", second.Error())
		}
	})

	t.Run("WrongCodeDoesNotConsume", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		request(t, h, "send")

		// Act
		wrong := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "000000")
		right := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "135791")

		// Assert
		if wrong == nil {
			t.Fatalf("wrong code must fail")
		}
		if wrong.Error() != "passcode is incorrect" {
			t.Fatalf("wrong code = %q", wrong.Error())
		}
		if right != nil {
			t.Fatalf("correct code after a wrong attempt: %v", right)
		}
	})

	t.Run("ExpiredChallengeRejectsCorrectCode", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		request(t, h, "send")
		h.clock.advance(6 * time.Minute)

		// Act
		err := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "135791")

		// Assert
		if err == nil {
			t.Fatalf("expired challenge must fail")
		}
		if err.Error() != "passcode is invalid or has expired" {
			t.Fatalf("expired = %q", err.Error())
		}
	})

	t.Run("NoChallengeFails", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "135791")

		// Assert
		if err == nil {
			t.Fatalf("verify without a challenge must fail")
		}
	})

	t.Run("PurposeMismatchFails", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		request(t, h, "send")

		// Act
		err := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeDecode, "135791")

		// Assert
		if err == nil {
			t.Fatalf("a send passcode must not unlock decode")
		}
	})

	t.Run("ConcurrentVerifyExactlyOneWins", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		request(t, h, "send")

		const verifiers = 8

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)

		// Act
		for range verifiers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := h.uc.consumeChallenge(context.Background(), "alice@example.com", entity.ChallengePurposeSend, "135791"); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		// Assert
		if successes != 1 {
			t.Fatalf("successes = %d, want exactly 1", successes)
		}
	})
}
