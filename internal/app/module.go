package app

import (
	"log/slog"
	"os"

	"github.com/pixelveil/pixelveil/internal/exchange"
	"github.com/pixelveil/pixelveil/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.exchange.enabled") {
		if err := exchange.New(exchange.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Router:     a.router,
			Goroutine:  a.goroutine,
			Messaging:  a.messaging,
			Storage:    a.storage,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Bcrypt:     a.bcrypt,
			Passcode:   a.passcode,
			Pool:       a.pool,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module exchange", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Router:      a.router,
			Mail:        a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
