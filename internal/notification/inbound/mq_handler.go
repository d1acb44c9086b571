package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pixelveil/pixelveil/internal/notification/usecase"
	"github.com/pixelveil/pixelveil/internal/pkg/idempotency"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/messaging"
	"github.com/pixelveil/pixelveil/internal/pkg/uid"
	"github.com/pixelveil/pixelveil/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc    uc
	uuid  uid.StringID
	idemp idempotency.Idempotency
	ins   instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) (context.Context, string) {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			cID := string(headers[i].Value)
			return instrument.SetCorrelationID(ctx, cID), cID
		}
	}

	cID := h.uuid.Generate()
	return instrument.SetCorrelationID(ctx, cID), cID
}

// dedupe runs fn at most once per key. Brokers deliver at least once, so
// a redelivered event must not mail a second receipt.
func (h *MQHandler) dedupe(ctx context.Context, key string, fn func(context.Context) error) error {
	err := h.idemp.Exec(ctx, key, fn, idempotency.WithStateTTL(time.Hour))
	if errors.Is(err, idempotency.ErrAlreadyCompleted) ||
		errors.Is(err, idempotency.ErrAlreadyInProgress) ||
		errors.Is(err, idempotency.ErrAlreadyFailed) {
		slog.InfoContext(ctx, "skipping duplicate event", "key", key)
		return nil
	}
	return err
}

func (h *MQHandler) SecureSendReceipt(ctx context.Context, msg messaging.Message) error {
	ctx, cID := h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "SecureSendReceipt")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: secure send receipt", "msg_body", string(body))

	var payload event.SecureSendCompletedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of secure send receipt", "msg_body", string(body), "error", err)
		return nil
	}

	err := h.dedupe(ctx, "notification:secure_send:"+cID, func(ctx context.Context) error {
		return h.uc.ConsumeSecureSend(ctx, usecase.ConsumeSecureSendInput{
			Identity: payload.Identity,
			ImageURL: payload.ImageURL,
			Password: payload.Password,
		})
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume secure send", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) SecureDecodeReceipt(ctx context.Context, msg messaging.Message) error {
	ctx, cID := h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "SecureDecodeReceipt")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: secure decode receipt", "msg_body", string(body))

	var payload event.SecureDecodeCompletedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of secure decode receipt", "msg_body", string(body), "error", err)
		return nil
	}

	err := h.dedupe(ctx, "notification:secure_decode:"+cID, func(ctx context.Context) error {
		return h.uc.ConsumeSecureDecode(ctx, usecase.ConsumeSecureDecodeInput{
			Identity: payload.Identity,
			Kind:     payload.Kind,
		})
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume secure decode", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
