package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pixelveil/pixelveil/internal/pkg/clock"
	"github.com/pixelveil/pixelveil/internal/pkg/config"
	"github.com/pixelveil/pixelveil/internal/pkg/goroutine"
	"github.com/pixelveil/pixelveil/internal/pkg/hash"
	"github.com/pixelveil/pixelveil/internal/pkg/idempotency"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/mail"
	"github.com/pixelveil/pixelveil/internal/pkg/messaging"
	"github.com/pixelveil/pixelveil/internal/pkg/otp"
	"github.com/pixelveil/pixelveil/internal/pkg/router"
	"github.com/pixelveil/pixelveil/internal/pkg/storage"
	"github.com/pixelveil/pixelveil/internal/pkg/uid"
	"github.com/pixelveil/pixelveil/internal/pkg/validator"
	"github.com/pixelveil/pixelveil/internal/pkg/workpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	passcode  otp.Generator
	pool      *workpool.Pool

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
