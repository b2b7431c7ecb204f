package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"
	"audio-mixing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 16

type WebhookHandler struct {
	checkout      *service.CheckoutService
	repo          *repository.Repository
	webhookSecret string
	log           *zap.Logger
}

func NewWebhookHandler(checkout *service.CheckoutService, repo *repository.Repository, webhookSecret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{checkout: checkout, repo: repo, webhookSecret: webhookSecret, log: log}
}

// Stripe handles gateway callbacks. The event row is written only after the
// event has been handled: a transient failure leaves no row, so the gateway
// retry gets reprocessed instead of a false "duplicate". Replays of a handled
// event re-run the confirmation, which is idempotent on the transaction id.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("unreadable payload", nil))
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.log.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid signature", nil))
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleSessionCompleted(c, event)
	case "payment_intent.succeeded", "invoice.payment_succeeded":
		// Recorded for audit; order creation is keyed on the checkout session.
		seen, err := h.recordEvent(c, event)
		if err != nil {
			return
		}
		if seen {
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "recorded"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

// recordEvent marks the event processed; true means it was already on file.
// On storage error the 500 response is written here and err is non-nil.
func (h *WebhookHandler) recordEvent(c *gin.Context, event stripe.Event) (bool, error) {
	seen, err := h.repo.WebhookEvents.Record(c.Request.Context(), &models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
	})
	if err != nil {
		h.log.Error("webhook event record failed", zap.String("event_id", event.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return false, err
	}
	return seen, nil
}

func (h *WebhookHandler) handleSessionCompleted(c *gin.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.log.Error("webhook session decode failed", zap.String("event_id", event.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("malformed session payload", nil))
		return
	}

	items, err := service.DecodeItemsMeta(sess.Metadata["items"])
	if err != nil || len(items) == 0 {
		h.log.Warn("webhook session without item metadata", zap.String("session_id", sess.ID))
		c.JSON(http.StatusOK, gin.H{"status": "no_items"})
		return
	}

	in := service.ConfirmInput{
		Guest: models.GuestContact{
			GuestName:  sess.Metadata["guest_name"],
			GuestEmail: sess.Metadata["guest_email"],
			GuestPhone: sess.Metadata["guest_phone"],
		},
		Items:         items,
		PromoCode:     sess.Metadata["promo_code"],
		Currency:      string(sess.Currency),
		AmountCents:   sess.AmountTotal,
		PaymentMethod: models.PaymentMethodStripe,
		SessionID:     sess.ID,
	}
	if raw := sess.Metadata["user_id"]; raw != "" {
		if uid, err := uuid.Parse(raw); err == nil {
			in.UserID = &uid
		}
	}

	order, err := h.checkout.ConfirmCheckout(c.Request.Context(), in)
	if err != nil {
		h.log.Error("webhook confirmation failed", zap.String("session_id", sess.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	seen, err := h.recordEvent(c, event)
	if err != nil {
		// Confirmation committed; the retry re-confirms as a no-op and
		// records the event then.
		return
	}
	if seen {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate", "order_id": order.ID.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "order_id": order.ID.String()})
}
