package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/pixelveil/pixelveil/internal/pkg/config"
	"github.com/pixelveil/pixelveil/internal/pkg/goroutine"
	"github.com/pixelveil/pixelveil/internal/pkg/idempotency"
	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/messaging"
	"github.com/pixelveil/pixelveil/internal/pkg/uid"
	"github.com/pixelveil/pixelveil/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	idemp idempotency.Idempotency,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHanlder := &MQHandler{uc: uc, uuid: uuid, idemp: idemp, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubusb
		handler            messaging.Handler
	}{
		{
			name:               event.SecureSendCompletedConsumerNotification,
			topic:              event.SecureSendCompletedDestination,
			nsqConsumerName:    event.SecureSendCompletedConsumerNotification,
			natsConsumerName:   event.SecureSendCompletedConsumerNotification,
			kafkaConsumerName:  event.SecureSendCompletedConsumerNotification,
			pubsubConsumerName: event.SecureSendCompletedConsumerNotification,
			handler:            mqHanlder.SecureSendReceipt,
		},
		{
			name:               event.SecureDecodeCompletedConsumerNotification,
			topic:              event.SecureDecodeCompletedDestination,
			nsqConsumerName:    event.SecureDecodeCompletedConsumerNotification,
			natsConsumerName:   event.SecureDecodeCompletedConsumerNotification,
			kafkaConsumerName:  event.SecureDecodeCompletedConsumerNotification,
			pubsubConsumerName: event.SecureDecodeCompletedConsumerNotification,
			handler:            mqHanlder.SecureDecodeReceipt,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
