package exchange

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelveil/pixelveil/internal/exchange/inbound"
	"github.com/pixelveil/pixelveil/internal/exchange/outbound/blob"
	"github.com/pixelveil/pixelveil/internal/exchange/outbound/db"
	"github.com/pixelveil/pixelveil/internal/exchange/outbound/mailer"
	"github.com/pixelveil/pixelveil/internal/exchange/outbound/mq"
	"github.com/pixelveil/pixelveil/internal/exchange/usecase"
	"github.com/pixelveil/pixelveil/internal/pkg/clock"
	"github.com/pixelveil/pixelveil/internal/pkg/config"
	"github.com/pixelveil/pixelveil/internal/pkg/crypt"
	"github.com/pixelveil/pixelveil/internal/pkg/goroutine"
	"github.com/pixelveil/pixelveil/internal/pkg/hash"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/mail"
	"github.com/pixelveil/pixelveil/internal/pkg/messaging"
	"github.com/pixelveil/pixelveil/internal/pkg/otp"
	"github.com/pixelveil/pixelveil/internal/pkg/router"
	"github.com/pixelveil/pixelveil/internal/pkg/stego"
	"github.com/pixelveil/pixelveil/internal/pkg/storage"
	"github.com/pixelveil/pixelveil/internal/pkg/uid"
	"github.com/pixelveil/pixelveil/internal/pkg/validator"
	"github.com/pixelveil/pixelveil/internal/pkg/workpool"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Passcode   otp.Generator              `validate:"required"`
	Pool       *workpool.Pool             `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbExchange := db.NewDB(dep.DBConn, dep.Instrument)
	repoMailer := mailer.New(dep.Mail, dep.Instrument)
	repoBlob := blob.New(
		dep.Storage,
		dep.Config.GetString("modules.exchange.blob.bucket"),
		dep.Config.GetMinute("modules.exchange.blob.url_expiry_minutes"),
		dep.Instrument,
	)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbExchange,
		RepoMailer:    repoMailer,
		RepoBlob:      repoBlob,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		Passcode:      dep.Passcode,
		Cipher:        crypt.NewCipher(),
		Codec:         stego.NewBitCodec(),
		Framer:        stego.NewFramer(),
		Pool:          dep.Pool,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Ctx != nil {
		startSweeper(dep.Ctx, dep.Config, dep.Goroutine, uc)
	}

	return nil
}

// startSweeper periodically deletes expired challenges. Query-time expiry
// filtering already keeps correctness; the sweep is housekeeping.
func startSweeper(ctx context.Context, cfg config.Config, gor *goroutine.Manager, uc *usecase.Usecase) {
	interval := cfg.GetMinute("modules.exchange.sweep_interval_minutes")
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	gor.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				// SweepExpired logs its own failures; the loop keeps going.
				_ = uc.SweepExpired(ctx)
			}
		}
	})
}
