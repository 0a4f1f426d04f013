package payment

import (
	"context"
	"fmt"

	"github.com/plutov/paypal/v4"
)

// PayPalGateway implements Gateway on top of the PayPal Orders v2 API.
type PayPalGateway struct {
	client *paypal.Client
}

func NewPayPalGateway(clientID, secret, mode string) (*PayPalGateway, error) {
	base := paypal.APIBaseSandBox
	if mode == "live" {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("paypal client: %w", err)
	}

	return &PayPalGateway{client: client}, nil
}

func (g *PayPalGateway) Create(ctx context.Context, req CreateRequest) (*Approval, error) {
	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: req.Currency,
				Value:    fmt.Sprintf("%.2f", req.Amount),
			},
			Description: req.Description,
		},
	}

	appCtx := &paypal.ApplicationContext{
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
	}

	order, err := g.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	approval := &Approval{PaymentID: order.ID}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approval.ApprovalURL = link.Href
			break
		}
	}
	if approval.ApprovalURL == "" {
		return nil, fmt.Errorf("paypal create order: no approval link in response")
	}

	return approval, nil
}

func (g *PayPalGateway) Execute(ctx context.Context, paymentID, payerID string) error {
	// PayPal v2 capture does not need the payer id; it is part of the
	// approved order. It is still accepted here to keep the gateway
	// interface aligned with the client-facing protocol.
	_, err := g.client.CaptureOrder(ctx, paymentID, paypal.CaptureOrderRequest{})
	if err != nil {
		return fmt.Errorf("paypal capture order: %w", err)
	}
	return nil
}
