package usecase

import (
	"context"
	"log/slog"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
)

// Email templates keyed by trigger. Bodies are html/template sources fed
// with baseEmailTemplateData plus per-trigger fields.
var emailTemplates = map[entity.TriggerKey]entity.Template{
	entity.TriggerKeySecureSendReceipt: {
		TriggerKey: entity.TriggerKeySecureSendReceipt,
		Subject:    "Your hidden message is ready",
		Body: `<p>Hi,</p>
<p>Your message was embedded and the carrier image is ready to share.</p>
{{if .image_url}}<p><a href="{{.image_url}}">Download the image</a></p>{{end}}
{{if .password}}<p>The message is password protected. The recipient will need the password you chose.</p>{{end}}
<p>If this was not you, contact {{.support_email}}.</p>
<p>&copy; {{.year}} {{.company_name}}</p>`,
	},
	entity.TriggerKeySecureDecodeReceipt: {
		TriggerKey: entity.TriggerKeySecureDecodeReceipt,
		Subject:    "A hidden message was revealed",
		Body: `<p>Hi,</p>
<p>A {{.kind}} payload was just revealed using a passcode sent to this address.</p>
<p>If this was not you, contact {{.support_email}}.</p>
<p>&copy; {{.year}} {{.company_name}}</p>`,
	},
}

func (s *Usecase) getTemplate(ctx context.Context, tk entity.TriggerKey) *entity.Template {
	tpl, ok := emailTemplates[tk]
	if !ok {
		slog.WarnContext(ctx, "notification template not found", "trigger_key", tk)
		return nil
	}
	return &tpl
}
