package mq

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/codes"

	"github.com/pixelveil/pixelveil/internal/exchange/usecase"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/messaging"
	"github.com/pixelveil/pixelveil/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishSecureSendCompleted(ctx context.Context, msg usecase.SecureSendEvent) error {
	ctx, span := m.ins.Tracer("exchange.outbound.mq").Start(ctx, "PublishSecureSendCompleted")
	defer span.End()

	body, err := json.Marshal(event.SecureSendCompletedMessage{
		Identity: msg.Identity,
		ImageURL: msg.ImageURL,
		Password: msg.Password,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.SecureSendCompletedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishSecureDecodeCompleted(ctx context.Context, msg usecase.SecureDecodeEvent) error {
	ctx, span := m.ins.Tracer("exchange.outbound.mq").Start(ctx, "PublishSecureDecodeCompleted")
	defer span.End()

	body, err := json.Marshal(event.SecureDecodeCompletedMessage{
		Identity: msg.Identity,
		Kind:     msg.Kind,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.SecureDecodeCompletedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
