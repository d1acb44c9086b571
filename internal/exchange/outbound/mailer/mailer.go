package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/pixelveil/pixelveil/internal/exchange/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/mail"
)

const maxDeliveryAttempts = 3

// Mailer delivers passcodes over email, retrying transient transport
// failures before giving up.
type Mailer struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mailer {
	return &Mailer{client: client, ins: ins}
}

func (m *Mailer) SendPasscode(ctx context.Context, identity, code string, p entity.ChallengePurpose) error {
	ctx, span := m.ins.Tracer("exchange.outbound.mailer").Start(ctx, "SendPasscode")
	defer span.End()

	msg := mail.Message{
		To:       []string{identity},
		Subject:  fmt.Sprintf("Your %s passcode", p.String()),
		TextBody: passcodeText(code, p),
		HTMLBody: passcodeHTML(code, p),
	}

	b := retry.WithMaxRetries(maxDeliveryAttempts-1, retry.NewFibonacci(500*time.Millisecond))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := m.client.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func passcodeText(code string, p entity.ChallengePurpose) string {
	action := "send a secure message"
	if p == entity.ChallengePurposeDecode {
		action = "decode a secure message"
	}

	return fmt.Sprintf(
		"Your one-time passcode to %s is %s.\n\nIt expires in 5 minutes and can be used once. If you did not request this, ignore this email.",
		action, code,
	)
}

func passcodeHTML(code string, p entity.ChallengePurpose) string {
	action := "send a secure message"
	if p == entity.ChallengePurposeDecode {
		action = "decode a secure message"
	}

	return fmt.Sprintf(
		`<p>Your one-time passcode to %s is:</p><p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p><p>It expires in 5 minutes and can be used once. If you did not request this, ignore this email.</p>`,
		action, code,
	)
}
