package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/config"
	"github.com/pixelveil/pixelveil/internal/pkg/crypt"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/hash"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
	"github.com/pixelveil/pixelveil/internal/pkg/validator"
	"github.com/pixelveil/pixelveil/internal/pkg/workpool"
)

const testConfigYAML = `
modules:
  exchange:
    otp_ttl_minutes: 5
    processing_timeout_seconds: 30
    sweep_interval_minutes: 5
    blob:
      bucket: exchange
      url_expiry_minutes: 60
`

// memRepo is an in-memory challenge store with the same atomic consume
// semantics as the SQL repository.
type memRepo struct {
	mu         sync.Mutex
	challenges map[int64]*entity.OtpChallenge
}

func newMemRepo() *memRepo {
	return &memRepo{challenges: map[int64]*entity.OtpChallenge{}}
}

func (r *memRepo) CreateChallenge(_ context.Context, in entity.OtpChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := in
	r.challenges[in.ID] = &c
	return nil
}

func (r *memRepo) GetLatestChallenge(_ context.Context, identity string, p entity.ChallengePurpose) (*entity.OtpChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.OtpChallenge
	for _, c := range r.challenges {
		if c.Identity == identity && c.Purpose == p {
			if latest == nil || c.ExpiresAt.After(latest.ExpiresAt) {
				latest = c
			}
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (r *memRepo) ConsumeChallenge(_ context.Context, id int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[id]
	if !ok || !c.Active(now) {
		return false, nil
	}
	c.Used = true
	return true, nil
}

func (r *memRepo) DeleteChallenge(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.challenges, id)
	return nil
}

func (r *memRepo) DeleteChallengeByIdentityPurpose(_ context.Context, identity string, p entity.ChallengePurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.challenges {
		if c.Identity == identity && c.Purpose == p {
			delete(r.challenges, id)
		}
	}
	return nil
}

func (r *memRepo) DeleteExpiredChallenges(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.challenges {
		if !c.ExpiresAt.After(before) {
			delete(r.challenges, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.challenges)
}

type fakeMailer struct {
	mu       sync.Mutex
	lastCode string
	fail     bool
}

func (m *fakeMailer) SendPasscode(_ context.Context, _, code string, _ entity.ChallengePurpose) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.lastCode = code
	return nil
}

func (m *fakeMailer) code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCode
}

type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}}
}

func (b *fakeBlob) Store(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return "https://blob.test/" + key, nil
}

func (b *fakeBlob) Fetch(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, errors.New("blob: object not found")
	}
	return data, nil
}

type fakeMessaging struct {
	mu      sync.Mutex
	sends   []SecureSendEvent
	decodes []SecureDecodeEvent
}

func (m *fakeMessaging) PublishSecureSendCompleted(_ context.Context, msg SecureSendEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, msg)
	return nil
}

func (m *fakeMessaging) PublishSecureDecodeCompleted(_ context.Context, msg SecureDecodeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodes = append(m.decodes, msg)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type fixedUUID struct{}

func (fixedUUID) Generate() string { return "0123456789abcdef" }

type fixedCode struct{ code string }

func (f fixedCode) Code() (string, error) { return f.code, nil }

type testHarness struct {
	uc        *Usecase
	repo      *memRepo
	mailer    *fakeMailer
	blob      *fakeBlob
	messaging *fakeMessaging
	clock     *fakeClock
}

func newHarness(t interface{ Fatalf(string, ...any) }) *testHarness {
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	h := &testHarness{
		repo:      newMemRepo(),
		mailer:    &fakeMailer{},
		blob:      newFakeBlob(),
		messaging: &fakeMessaging{},
		clock:     &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)},
	}

	h.uc = New(Dependency{
		RepoDB:        h.repo,
		RepoMailer:    h.mailer,
		RepoBlob:      h.blob,
		RepoMessaging: h.messaging,
		Validator:     v,
		Config:        cfg,
		Bcrypt:        hash.NewBcrypt(4, ""),
		Passcode:      fixedCode{code: "135791"},
		Cipher:        crypt.NewCipher(),
		Codec:         stego.NewBitCodec(),
		Framer:        stego.NewFramer(),
		Pool:          workpool.New(4),
		UID:           &seqID{},
		UUID:          fixedUUID{},
		Clock:         h.clock,
		Instrument:    instrument.NewNoop(),
	})

	return h
}
