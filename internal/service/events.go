package service

import (
	"context"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"

	"go.uber.org/zap"
)

// Email template names resolved by the notifier against TMPL_DIR.
const (
	TmplOrderConfirmed    = "order_confirmed"
	TmplOrderStatus       = "order_status_changed"
	TmplFilesDelivered    = "files_delivered"
	TmplRevisionRequested = "revision_requested"
	TmplRevisionDelivered = "revision_delivered"
	TmplGiftCard          = "gift_card"
	TmplVerifyEmail       = "verify_email"
	TmplPasswordReset     = "password_reset"
)

// Notifier fans transactional emails out to the purchaser, the admin inbox
// and every engineer account. Publishing is best effort: failures are logged
// and never propagate into the request that triggered them.
type Notifier struct {
	publisher  EmailPublisher
	users      repository.UserRepo
	adminEmail string
	log        *zap.Logger
}

func NewNotifier(publisher EmailPublisher, users repository.UserRepo, adminEmail string, log *zap.Logger) *Notifier {
	return &Notifier{publisher: publisher, users: users, adminEmail: adminEmail, log: log}
}

func (n *Notifier) Send(ctx context.Context, key string, msg EmailMessage) {
	if n == nil || n.publisher == nil || msg.To == "" {
		return
	}
	if err := n.publisher.SendEmail(ctx, key, msg); err != nil {
		n.log.Error("email publish failed",
			zap.String("to", msg.To), zap.String("template", msg.Template), zap.Error(err))
	}
}

// Broadcast sends the message to the purchaser, the admin address and all
// engineer-role users.
func (n *Notifier) Broadcast(ctx context.Context, key, purchaserEmail, subject, template string, data map[string]any) {
	if n == nil {
		return
	}
	n.Send(ctx, key, EmailMessage{To: purchaserEmail, Subject: subject, Template: template, Data: data})
	if n.adminEmail != "" {
		n.Send(ctx, key, EmailMessage{To: n.adminEmail, Subject: subject, Template: template, Data: data})
	}
	if n.users == nil {
		return
	}
	engineers, err := n.users.ListByRole(ctx, models.RoleEngineer)
	if err != nil {
		n.log.Error("engineer lookup for notification failed", zap.Error(err))
		return
	}
	for _, e := range engineers {
		n.Send(ctx, key, EmailMessage{To: e.Email, Subject: subject, Template: template, Data: data})
	}
}
