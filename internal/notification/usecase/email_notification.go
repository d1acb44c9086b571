package usecase

import (
	"context"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/pkg/mail"
	"github.com/pixelveil/pixelveil/internal/pkg/valueobject"
)

type emailNotificationInput struct {
	Identity     string
	Kind         entity.ReceiptKind
	TriggerKey   entity.TriggerKey
	TemplateData map[string]any
	Detail       valueobject.JSONMap
}

// sendEmailNotification persists a receipt with a queued delivery log,
// mails the rendered template, and settles the log as sent or failed.
// Failures are logged, never propagated, so a broken mailer does not
// make the broker redeliver the event forever.
func (s *Usecase) sendEmailNotification(ctx context.Context, in emailNotificationInput) {
	tpl := s.getTemplate(ctx, in.TriggerKey)
	if tpl == nil {
		return
	}

	body, err := s.renderTemplate("body", tpl.Body, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body", "identity", in.Identity, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	r := entity.CreateReceipt{
		ID:       s.uid.Generate(),
		Identity: in.Identity,
		Kind:     in.Kind,
		Detail:   in.Detail,
	}

	dl := entity.CreateDeliveryLog{
		ReceiptID: r.ID,
		Channel:   entity.ChannelEmail,
		Status:    entity.DeliveryStatusQueued,
	}

	logID, err := s.repoDB.CreateReceiptWithDeliveryLog(ctx, r, dl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create receipt+log", "identity", in.Identity, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	mailErr := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Identity},
		Subject:  tpl.Subject,
		HTMLBody: body,
	})
	if mailErr == nil {
		up := entity.UpdateDeliveryLog{
			ID:               logID,
			Status:           entity.DeliveryStatusSent,
			ProviderResponse: valueobject.JSONMap{},
		}
		if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
			slog.ErrorContext(ctx, "failed to repo update delivery log status sent", "log_id", logID, "error", err)
		}
		return
	}

	nextRetry := s.clock.Now().Add(s.cfg.GetMinute("modules.notification.retry_backoff_minutes"))
	up := entity.UpdateDeliveryLog{
		ID:               logID,
		Status:           entity.DeliveryStatusFailed,
		ProviderResponse: valueobject.JSONMap{"error": mailErr.Error()},
		NextRetryAt:      &nextRetry,
	}
	if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status failed", "log_id", logID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send receipt email", "log_id", logID, "identity", in.Identity, "trigger_key", in.TriggerKey.String(), "error", mailErr)
}
