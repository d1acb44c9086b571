package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/clock"
	"github.com/pixelveil/pixelveil/internal/pkg/config"
	"github.com/pixelveil/pixelveil/internal/pkg/crypt"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/hash"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/otp"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
	"github.com/pixelveil/pixelveil/internal/pkg/uid"
	"github.com/pixelveil/pixelveil/internal/pkg/validator"
	"github.com/pixelveil/pixelveil/internal/pkg/workpool"
)

// SecureSendEvent is emitted after a payload is embedded and hosted.
type SecureSendEvent struct {
	Identity string
	ImageURL string
	Password bool
}

// SecureDecodeEvent is emitted after a hidden payload is recovered.
type SecureDecodeEvent struct {
	Identity string
	Kind     string
}

type repoMessaging interface {
	PublishSecureSendCompleted(ctx context.Context, msg SecureSendEvent) error
	PublishSecureDecodeCompleted(ctx context.Context, msg SecureDecodeEvent) error
}

type repoDB interface {
	CreateChallenge(ctx context.Context, in entity.OtpChallenge) error
	GetLatestChallenge(ctx context.Context, identity string, p entity.ChallengePurpose) (*entity.OtpChallenge, error)
	ConsumeChallenge(ctx context.Context, id int64, now time.Time) (bool, error)
	DeleteChallenge(ctx context.Context, id int64) error
	DeleteChallengeByIdentityPurpose(ctx context.Context, identity string, p entity.ChallengePurpose) error
	DeleteExpiredChallenges(ctx context.Context, before time.Time) (int64, error)
}

type repoMailer interface {
	SendPasscode(ctx context.Context, identity, code string, p entity.ChallengePurpose) error
}

type repoBlob interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMailer    repoMailer
	repoBlob      repoBlob
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	passcode      otp.Generator
	cipher        *crypt.Cipher
	codec         *stego.BitCodec
	framer        *stego.Framer
	pool          *workpool.Pool
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMailer    repoMailer
	RepoBlob      repoBlob
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	Passcode      otp.Generator
	Cipher        *crypt.Cipher
	Codec         *stego.BitCodec
	Framer        *stego.Framer
	Pool          *workpool.Pool
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMailer:    dep.RepoMailer,
		repoBlob:      dep.RepoBlob,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		passcode:      dep.Passcode,
		cipher:        dep.Cipher,
		codec:         dep.Codec,
		framer:        dep.Framer,
		pool:          dep.Pool,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("exchange.usecase").Start(ctx, name)
}

// maskIdentity hides most of an email address so responses can echo where
// the passcode went without disclosing the full address.
func maskIdentity(identity string) string {
	at := strings.LastIndex(identity, "@")
	if at <= 0 {
		return "***"
	}

	local, domain := identity[:at], identity[at+1:]
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + domain
}

// mapProcessingError converts codec and cipher failures into stable,
// non-sensitive user-facing errors.
func mapProcessingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stego.ErrCapacityExceeded):
		return goerror.NewBusiness("message is too large for this cover image", goerror.CodeInvalidInput)
	case errors.Is(err, stego.ErrNotSteganographic):
		return goerror.NewBusiness("image does not contain a hidden message", goerror.CodeInvalidInput)
	case errors.Is(err, stego.ErrInvalidLength), errors.Is(err, stego.ErrCorruptedPayload):
		return goerror.NewBusiness("hidden message is corrupted", goerror.CodeInvalidInput)
	case errors.Is(err, stego.ErrUnsupportedImage):
		return goerror.NewBusiness("image must be a valid PNG", goerror.CodeInvalidInput)
	case errors.Is(err, crypt.ErrPasswordRequired):
		return goerror.NewBusiness("password is required to decrypt this message", goerror.CodeInvalidInput)
	case errors.Is(err, crypt.ErrAuthenticationFailed), errors.Is(err, crypt.ErrInvalidEnvelope):
		return goerror.NewBusiness("decryption failed", goerror.CodeUnauthorized)
	case errors.Is(err, workpool.ErrTimeout):
		return goerror.NewBusiness("processing took too long", goerror.CodeTimeout)
	default:
		return goerror.NewServer(err)
	}
}
