// Package payment creates order intents with the payment gateway. It never moves money;
// the client-side checkout widget completes payment against the returned order id.
package payment

import "context"

type OrderRequest struct {
	Amount      int64 // minor units
	Currency    string
	AutoCapture bool
	Receipt     string
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway is the one operation the storefront consumes.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}
