// Package payment wraps the external payment provider behind a small
// two-call interface: create an approval handle, then execute it.
package payment

import (
	"context"
)

type CreateRequest struct {
	Amount      float64
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

// Approval is the handle the buyer must approve out-of-band before the
// payment can be executed.
type Approval struct {
	PaymentID   string
	ApprovalURL string
}

type Gateway interface {
	// Create asks the provider for an approval handle. Provider failures
	// surface as plain errors; callers re-wrap them into domain errors.
	Create(ctx context.Context, req CreateRequest) (*Approval, error)

	// Execute finalizes an approved payment.
	Execute(ctx context.Context, paymentID, payerID string) error
}
