package payment

import (
	"context"
	"fmt"
	"strings"

	"audio-mixing-backend/internal/service"

	"github.com/plutov/paypal/v4"
	"go.uber.org/zap"
)

// PayPalClient adapts the PayPal orders API to the checkout gateway port.
type PayPalClient struct {
	client *paypal.Client
	log    *zap.Logger
}

func NewPayPalClient(clientID, secret, mode string, log *zap.Logger) (*PayPalClient, error) {
	base := paypal.APIBaseSandBox
	if strings.EqualFold(mode, "live") {
		base = paypal.APIBaseLive
	}
	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	return &PayPalClient{client: c, log: log}, nil
}

func (c *PayPalClient) CreateOrder(ctx context.Context, amountCents int64, currency, description string) (*service.PayPalOrderResult, error) {
	units := []paypal.PurchaseUnitRequest{{
		Amount: &paypal.PurchaseUnitAmount{
			Currency: strings.ToUpper(currency),
			Value:    FormatDecimal(amountCents),
		},
		Description: description,
	}}
	order, err := c.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, nil)
	if err != nil {
		return nil, err
	}

	res := &service.PayPalOrderResult{ID: order.ID}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			res.ApproveURL = link.Href
			break
		}
	}
	return res, nil
}

func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*service.PayPalCaptureResult, error) {
	capture, err := c.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, err
	}

	res := &service.PayPalCaptureResult{Status: capture.Status}
	for _, pu := range capture.PurchaseUnits {
		if pu.Payments == nil {
			continue
		}
		for _, cap := range pu.Payments.Captures {
			res.CaptureID = cap.ID
			break
		}
	}
	return res, nil
}

// FormatDecimal renders minor units as the "12.34" string PayPal expects.
func FormatDecimal(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
