package usecase

import (
	"context"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/valueobject"
)

type (
	ConsumeSecureSendInput struct {
		Identity string `validate:"required,email"`
		ImageURL string
		Password bool
	}
)

// ConsumeSecureSend mails a receipt for a completed embed. Invalid
// payloads are dropped rather than returned as errors so the broker does
// not redeliver garbage.
func (s *Usecase) ConsumeSecureSend(ctx context.Context, in ConsumeSecureSendInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeSecureSend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["image_url"] = in.ImageURL
	data["password"] = in.Password

	s.sendEmailNotification(ctx, emailNotificationInput{
		Identity:     in.Identity,
		Kind:         entity.ReceiptKindSend,
		TriggerKey:   entity.TriggerKeySecureSendReceipt,
		TemplateData: data,
		Detail: valueobject.JSONMap{
			"image_url": in.ImageURL,
			"password":  in.Password,
		},
	})

	return nil
}
