package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/config"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/mail"
	"github.com/pixelveil/pixelveil/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  notification:
    retry_backoff_minutes: 2
`

type storedLog struct {
	id        int64
	receiptID int64
	status    entity.DeliveryStatus
	response  map[string]any
	nextRetry *time.Time
}

type memRepo struct {
	mu       sync.Mutex
	receipts []entity.Receipt
	logs     []storedLog
	nextLog  int64
	now      func() time.Time
}

func (m *memRepo) CreateReceiptWithDeliveryLog(_ context.Context, r entity.CreateReceipt, dl entity.CreateDeliveryLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.receipts = append(m.receipts, entity.Receipt{
		ID:        r.ID,
		Identity:  r.Identity,
		Kind:      r.Kind,
		Detail:    r.Detail,
		CreatedAt: m.now(),
	})

	m.nextLog++
	m.logs = append(m.logs, storedLog{id: m.nextLog, receiptID: dl.ReceiptID, status: dl.Status})
	return m.nextLog, nil
}

func (m *memRepo) UpdateDeliveryLogStatus(_ context.Context, u entity.UpdateDeliveryLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.logs {
		if m.logs[i].id == u.ID {
			m.logs[i].status = u.Status
			m.logs[i].response = u.ProviderResponse
			m.logs[i].nextRetry = u.NextRetryAt
			return nil
		}
	}
	return errors.New("log not found")
}

func (m *memRepo) ListReceipts(_ context.Context, identity string, limit, offset int32) ([]entity.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []entity.Receipt
	for i := len(m.receipts) - 1; i >= 0; i-- {
		if m.receipts[i].Identity == identity {
			items = append(items, m.receipts[i])
		}
	}
	if int(offset) >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if int(limit) < len(items) {
		items = items[:limit]
	}
	return items, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type testHarness struct {
	uc     *Usecase
	repo   *memRepo
	mailer *fakeMailer
	clock  *fakeClock
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	clk := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	repo := &memRepo{now: func() time.Time { return clk.now }}
	mailer := &fakeMailer{}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	uc := NewNotification(Dependency{
		RepoDB:     repo,
		Config:     cfg,
		UID:        &seqID{},
		Clock:      clk,
		Validator:  v,
		RepoMail:   mailer,
		Instrument: instrument.NewNoop(),
	})

	return &testHarness{uc: uc, repo: repo, mailer: mailer, clock: clk}
}

func TestConsumeSecureSend(t *testing.T) {

	t.Run("MailsReceiptAndRecordsDelivery", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.ConsumeSecureSend(context.Background(), ConsumeSecureSendInput{
			Identity: "alice@example.com",
			ImageURL: "https://blob.test/abc.png",
			Password: true,
		})

		// Assert
		if err != nil {
			t.Fatalf("consume: %v", err)
		}
		if len(h.repo.receipts) != 1 {
			t.Fatalf("receipts = %d, want 1", len(h.repo.receipts))
		}
		if h.repo.receipts[0].Kind != entity.ReceiptKindSend {
			t.Fatalf("kind = %s", h.repo.receipts[0].Kind)
		}
		if len(h.mailer.sent) != 1 {
			t.Fatalf("mails = %d, want 1", len(h.mailer.sent))
		}
		msg := h.mailer.sent[0]
		if msg.To[0] != "alice@example.com" {
			t.Fatalf("to = %q", msg.To[0])
		}
		if !strings.Contains(msg.HTMLBody, "https://blob.test/abc.png") {
			t.Fatalf("body missing image link: %q", msg.HTMLBody)
		}
		if !strings.Contains(msg.HTMLBody, "password protected") {
			t.Fatalf("body missing password note: %q", msg.HTMLBody)
		}
		if h.repo.logs[0].status != entity.DeliveryStatusSent {
			t.Fatalf("log status = %s", h.repo.logs[0].status)
		}
	})

	t.Run("InvalidPayloadIsDroppedQuietly", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.ConsumeSecureSend(context.Background(), ConsumeSecureSendInput{
			Identity: "not-an-email",
		})

		// Assert: nil, or the broker would redeliver forever.
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if len(h.repo.receipts) != 0 {
			t.Fatalf("receipts = %d, want 0", len(h.repo.receipts))
		}
	})

	t.Run("MailerFailureMarksLogForRetry", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		h.mailer.fail = true

		// Act
		err := h.uc.ConsumeSecureSend(context.Background(), ConsumeSecureSendInput{
			Identity: "alice@example.com",
			ImageURL: "https://blob.test/abc.png",
		})

		// Assert
		if err != nil {
			t.Fatalf("consume: %v", err)
		}
		log := h.repo.logs[0]
		if log.status != entity.DeliveryStatusFailed {
			t.Fatalf("log status = %s", log.status)
		}
		if log.nextRetry == nil {
			t.Fatalf("next retry not set")
		}
		want := h.clock.now.Add(2 * time.Minute)
		if !log.nextRetry.Equal(want) {
			t.Fatalf("next retry = %v, want %v", log.nextRetry, want)
		}
		if log.response["error"] == nil {
			t.Fatalf("provider response missing error")
		}
	})
}

func TestConsumeSecureDecode(t *testing.T) {

	t.Run("MailsReceiptWithPayloadKind", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.ConsumeSecureDecode(context.Background(), ConsumeSecureDecodeInput{
			Identity: "alice@example.com",
			Kind:     "image",
		})

		// Assert
		if err != nil {
			t.Fatalf("consume: %v", err)
		}
		if h.repo.receipts[0].Kind != entity.ReceiptKindDecode {
			t.Fatalf("kind = %s", h.repo.receipts[0].Kind)
		}
		if !strings.Contains(h.mailer.sent[0].HTMLBody, "image payload") {
			t.Fatalf("body missing kind: %q", h.mailer.sent[0].HTMLBody)
		}
	})

	t.Run("RejectsUnknownKind", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.ConsumeSecureDecode(context.Background(), ConsumeSecureDecodeInput{
			Identity: "alice@example.com",
			Kind:     "audio",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if len(h.repo.receipts) != 0 {
			t.Fatalf("receipts = %d, want 0", len(h.repo.receipts))
		}
	})
}

func TestListReceipts(t *testing.T) {

	t.Run("NewestFirstWithDefaultLimit", func(t *testing.T) {

		// Arrange
		h := newHarness(t)
		for range 3 {
			if err := h.uc.ConsumeSecureSend(context.Background(), ConsumeSecureSendInput{
				Identity: "alice@example.com",
				ImageURL: "https://blob.test/a.png",
			}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}

		// Act
		items, err := h.uc.ListReceipts(context.Background(), ListReceiptsInput{Identity: "alice@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("items = %d, want 3", len(items))
		}
	})

	t.Run("RejectsInvalidIdentity", func(t *testing.T) {

		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.ListReceipts(context.Background(), ListReceiptsInput{Identity: "nope"})

		// Assert
		if err == nil {
			t.Fatalf("expected validation error")
		}
	})
}
