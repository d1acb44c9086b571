package usecase

import (
	"context"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/valueobject"
)

type (
	ConsumeSecureDecodeInput struct {
		Identity string `validate:"required,email"`
		Kind     string `validate:"required,oneof=text image"`
	}
)

// ConsumeSecureDecode mails a receipt for a completed reveal.
func (s *Usecase) ConsumeSecureDecode(ctx context.Context, in ConsumeSecureDecodeInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeSecureDecode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["kind"] = in.Kind

	s.sendEmailNotification(ctx, emailNotificationInput{
		Identity:     in.Identity,
		Kind:         entity.ReceiptKindDecode,
		TriggerKey:   entity.TriggerKeySecureDecodeReceipt,
		TemplateData: data,
		Detail: valueobject.JSONMap{
			"kind": in.Kind,
		},
	})

	return nil
}
