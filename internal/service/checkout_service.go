package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutService struct {
	repo     *repository.Repository
	stripe   StripeGateway
	paypal   PayPalGateway
	limiter  RateLimiter
	notifier *Notifier

	frontendURL string
	now         func() time.Time
	log         *zap.Logger
}

func NewCheckoutService(
	repo *repository.Repository,
	stripe StripeGateway,
	paypal PayPalGateway,
	limiter RateLimiter,
	notifier *Notifier,
	frontendURL string,
	log *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		repo:        repo,
		stripe:      stripe,
		paypal:      paypal,
		limiter:     limiter,
		notifier:    notifier,
		frontendURL: frontendURL,
		now:         time.Now,
		log:         log,
	}
}

// checkoutLimitTTL throttles repeated gateway-object creation per caller;
// confirmation is never limited so a paid session can always complete.
const checkoutLimitTTL = 10 * time.Second

func (s *CheckoutService) rateLimit(ctx context.Context, key string) error {
	if s.limiter == nil || key == "checkout:" {
		return nil
	}
	limited, err := s.limiter.CheckRateLimit(ctx, key)
	if err != nil {
		s.log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if limited {
		return ErrRateLimited
	}
	if err := s.limiter.SetRateLimit(ctx, key, checkoutLimitTTL); err != nil {
		s.log.Warn("rate limit set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

type ConfirmItem struct {
	VariantID uuid.UUID
	Quantity  uint32
}

// ConfirmInput describes one completed (or free) purchase. Amounts are minor
// units; the server re-derives line totals from the catalog and rejects a
// mismatched amount instead of trusting the caller.
type ConfirmInput struct {
	UserID *uuid.UUID
	Guest  models.GuestContact

	Items     []ConfirmItem
	OrderType models.OrderType
	PromoCode string

	AmountCents int64
	Currency    string

	PaymentMethod models.PaymentMethod
	// Stripe: checkout session id, verified against the gateway.
	SessionID string
	// PayPal: order id, captured here.
	PayPalOrderID string
}

// InitiatePaymentIntent starts a Stripe card-element flow.
func (s *CheckoutService) InitiatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntentResult, error) {
	if in.AmountCents <= 0 {
		return nil, ErrQuantityInvalid
	}
	if len(in.Currency) != 3 {
		return nil, ErrCurrencyMismatch
	}
	if err := s.rateLimit(ctx, "checkout:"+in.ReceiptEmail); err != nil {
		return nil, err
	}
	res, err := s.stripe.CreatePaymentIntent(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}
	return res, nil
}

// InitiateCheckoutSession starts a Stripe redirect flow. Guest contact rides
// in the session metadata because no order row exists before confirmation.
func (s *CheckoutService) InitiateCheckoutSession(ctx context.Context, items []ConfirmItem, currency string, guest models.GuestContact, userID *uuid.UUID) (*CheckoutSessionResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	limitKey := "checkout:" + guest.GuestEmail
	if userID != nil {
		limitKey = "checkout:" + userID.String()
	}
	if err := s.rateLimit(ctx, limitKey); err != nil {
		return nil, err
	}
	priced, _, err := s.priceItems(ctx, items, currency)
	if err != nil {
		return nil, err
	}

	lineItems := make([]CheckoutLineItem, 0, len(priced))
	for _, p := range priced {
		lineItems = append(lineItems, CheckoutLineItem{
			Name:           p.Name,
			UnitPriceCents: p.UnitPriceCents,
			Quantity:       int64(p.Quantity),
		})
	}

	meta := map[string]string{
		"items":       encodeItemsMeta(items),
		"guest_name":  guest.GuestName,
		"guest_email": guest.GuestEmail,
		"guest_phone": guest.GuestPhone,
	}
	if userID != nil {
		meta["user_id"] = userID.String()
	}

	res, err := s.stripe.CreateCheckoutSession(ctx, CheckoutSessionInput{
		Currency:   currency,
		Items:      lineItems,
		SuccessURL: s.frontendURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/checkout/cancel",
		Email:      guest.GuestEmail,
		Metadata:   meta,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return res, nil
}

// InitiatePayPalOrder creates a PayPal order and returns its approve link.
func (s *CheckoutService) InitiatePayPalOrder(ctx context.Context, amountCents int64, currency string) (*PayPalOrderResult, error) {
	if amountCents <= 0 {
		return nil, ErrQuantityInvalid
	}
	res, err := s.paypal.CreateOrder(ctx, amountCents, currency, "audio mixing and mastering services")
	if err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}
	if res.ApproveURL == "" {
		return nil, fmt.Errorf("paypal create order: approve link missing")
	}
	return res, nil
}

// ConfirmCheckout turns a completed payment into exactly one order. Both the
// browser callback and the webhook land here; whichever arrives first creates
// the row, the other gets it back unchanged.
func (s *CheckoutService) ConfirmCheckout(ctx context.Context, in ConfirmInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if in.OrderType == "" {
		in.OrderType = models.OrderTypeOneTime
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	transactionID, externalRef, paymentStatus, err := s.verifyPayment(ctx, &in)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.Orders.GetByTransactionID(ctx, transactionID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	priced, total, err := s.priceItems(ctx, in.Items, in.Currency)
	if err != nil {
		return nil, err
	}
	total, err = s.applyCoupon(ctx, in.PromoCode, priced, total)
	if err != nil {
		return nil, err
	}
	if in.AmountCents > 0 && in.AmountCents != total {
		return nil, ErrAmountMismatch
	}

	now := s.now()
	order := &models.Order{
		UserID:            in.UserID,
		GuestContact:      in.Guest,
		TransactionID:     transactionID,
		ExternalReference: externalRef,
		AmountCents:       total,
		Currency:          strings.ToUpper(in.Currency),
		PromoCode:         in.PromoCode,
		PaymentStatus:     paymentStatus,
		PaymentMethod:     in.PaymentMethod,
		OrderType:         in.OrderType,
		Status:            models.OrderStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var giftCards []models.GiftCard
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(priced))
		purchasedVariants := make([]uuid.UUID, 0, len(priced))
		for _, p := range priced {
			items = append(items, models.OrderItem{
				OrderID:        order.ID,
				VariantID:      p.VariantID,
				OfferingID:     p.OfferingID,
				Name:           p.Name,
				ServiceType:    p.ServiceType,
				Quantity:       p.Quantity,
				UnitPriceCents: p.UnitPriceCents,
				LineTotalCents: p.LineTotalCents,
				MaxRevision:    int32(p.Quantity) * 3,
				CreatedAt:      now,
			})
			purchasedVariants = append(purchasedVariants, p.VariantID)

			if p.IsGiftCard {
				giftCards = append(giftCards, models.GiftCard{
					Code:        "gift-" + uuid.NewString(),
					OrderID:     order.ID,
					AmountCents: p.LineTotalCents,
					CreatedAt:   now,
				})
			}
		}
		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return err
		}
		order.Items = items

		for i := range giftCards {
			if err := tx.GiftCards.Create(ctx, &giftCards[i]); err != nil {
				return err
			}
		}

		if in.OrderType == models.OrderTypeOneTime && in.UserID != nil {
			if _, err := tx.Carts.DeleteByUserAndVariants(ctx, *in.UserID, purchasedVariants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// A lost race on the transaction_id unique index means the other
		// confirmation path won; hand back its order.
		if existing, lookupErr := s.repo.Orders.GetByTransactionID(ctx, transactionID); lookupErr == nil && existing != nil {
			s.log.Info("checkout confirmation raced, returning existing order",
				zap.String("transaction_id", transactionID), zap.String("order_id", existing.ID.String()))
			return existing, nil
		}
		return nil, err
	}

	s.notifyConfirmed(ctx, order, giftCards)
	return order, nil
}

func (s *CheckoutService) verifyPayment(ctx context.Context, in *ConfirmInput) (transactionID, externalRef, paymentStatus string, err error) {
	switch {
	case in.PaymentMethod == models.PaymentMethodStripe && in.SessionID != "":
		sess, err := s.stripe.GetCheckoutSession(ctx, in.SessionID)
		if err != nil {
			return "", "", "", fmt.Errorf("stripe get session: %w", err)
		}
		if sess.PaymentStatus != "paid" {
			return "", "", "", ErrPaymentNotComplete
		}
		return sess.ID, sess.PaymentIntent, sess.PaymentStatus, nil

	case in.PaymentMethod == models.PaymentMethodPayPal && in.PayPalOrderID != "":
		cap, err := s.paypal.CaptureOrder(ctx, in.PayPalOrderID)
		if err != nil {
			return "", "", "", fmt.Errorf("paypal capture: %w", err)
		}
		if cap.Status != "COMPLETED" {
			return "", "", "", ErrPaymentNotComplete
		}
		return in.PayPalOrderID, cap.CaptureID, strings.ToLower(cap.Status), nil

	case in.AmountCents == 0:
		in.PaymentMethod = models.PaymentMethodFree
		return "free-" + uuid.NewString(), "", "free", nil
	}
	return "", "", "", ErrPaymentNotComplete
}

type pricedItem struct {
	VariantID      uuid.UUID
	OfferingID     uuid.UUID
	Name           string
	ServiceType    string
	Quantity       uint32
	UnitPriceCents int64
	LineTotalCents int64
	IsGiftCard     bool
}

func (s *CheckoutService) priceItems(ctx context.Context, items []ConfirmItem, currency string) ([]pricedItem, int64, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.Quantity == 0 {
			return nil, 0, ErrQuantityInvalid
		}
		ids = append(ids, it.VariantID)
	}

	variants, err := s.repo.Catalog.GetVariants(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]models.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	var (
		out   []pricedItem
		total int64
	)
	for _, it := range items {
		v, ok := byID[it.VariantID]
		if !ok {
			return nil, 0, ErrVariantNotFound
		}
		if !strings.EqualFold(v.Currency, currency) {
			return nil, 0, ErrCurrencyMismatch
		}
		off, err := s.repo.Catalog.GetOffering(ctx, v.OfferingID)
		if err != nil {
			return nil, 0, err
		}
		if off == nil {
			return nil, 0, ErrOfferingNotFound
		}

		line := int64(it.Quantity) * v.PriceCents
		total += line
		out = append(out, pricedItem{
			VariantID:      v.ID,
			OfferingID:     v.OfferingID,
			Name:           off.Name + " — " + v.Name,
			ServiceType:    string(v.OrderType),
			Quantity:       it.Quantity,
			UnitPriceCents: v.PriceCents,
			LineTotalCents: line,
			IsGiftCard:     off.Category.IsGiftCard,
		})
	}
	return out, total, nil
}

func (s *CheckoutService) applyCoupon(ctx context.Context, code string, priced []pricedItem, total int64) (int64, error) {
	if code == "" {
		return total, nil
	}
	coupon, err := s.repo.Coupons.GetActiveByCode(ctx, code, s.now())
	if err != nil {
		return 0, err
	}
	if coupon == nil {
		return 0, ErrCouponInvalid
	}

	// Discount base: the whole order, or only the offerings the coupon names.
	base := total
	if len(coupon.Products) > 0 {
		allowed := make(map[uuid.UUID]bool, len(coupon.Products))
		for _, p := range coupon.Products {
			allowed[p.OfferingID] = true
		}
		base = 0
		for _, p := range priced {
			if allowed[p.OfferingID] {
				base += p.LineTotalCents
			}
		}
		if base == 0 {
			return 0, ErrCouponInvalid
		}
	}

	var discount int64
	switch {
	case coupon.DiscountPercent != nil:
		discount = base * int64(*coupon.DiscountPercent) / 100
	case coupon.DiscountCents != nil:
		discount = *coupon.DiscountCents
	}
	if discount > base {
		discount = base
	}
	return total - discount, nil
}

func (s *CheckoutService) notifyConfirmed(ctx context.Context, order *models.Order, giftCards []models.GiftCard) {
	email := order.GuestEmail
	if order.UserID != nil {
		if u, err := s.repo.Users.GetByID(ctx, *order.UserID); err == nil && u != nil {
			email = order.PurchaserEmail(u.Email)
		}
	}

	data := map[string]any{
		"order_id":     order.ID.String(),
		"amount_cents": order.AmountCents,
		"currency":     order.Currency,
		"items":        len(order.Items),
	}
	s.notifier.Broadcast(ctx, order.ID.String(), email, "Your order is confirmed", TmplOrderConfirmed, data)

	for _, g := range giftCards {
		s.notifier.Send(ctx, order.ID.String(), EmailMessage{
			To:       email,
			Subject:  "Your gift card",
			Template: TmplGiftCard,
			Data:     map[string]any{"code": g.Code, "amount_cents": g.AmountCents},
		})
	}
}

func encodeItemsMeta(items []ConfirmItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s:%d", it.VariantID, it.Quantity))
	}
	return strings.Join(parts, ",")
}

// DecodeItemsMeta parses the compact variant:qty list stored in gateway
// metadata back into checkout items.
func DecodeItemsMeta(meta string) ([]ConfirmItem, error) {
	if meta == "" {
		return nil, nil
	}
	var out []ConfirmItem
	for _, part := range strings.Split(meta, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed items metadata %q", part)
		}
		id, err := uuid.Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed variant id in metadata: %w", err)
		}
		var qty uint32
		if _, err := fmt.Sscanf(fields[1], "%d", &qty); err != nil || qty == 0 {
			return nil, fmt.Errorf("malformed quantity in metadata %q", part)
		}
		out = append(out, ConfirmItem{VariantID: id, Quantity: qty})
	}
	return out, nil
}
