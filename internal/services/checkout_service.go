package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"rjcreations/internal/domain"
	applog "rjcreations/internal/log"
	"rjcreations/internal/payment"
)

const Currency = "INR"

// CheckoutService creates gateway orders, at most one per distinct cart per session.
type CheckoutService struct {
	Gateway payment.Gateway
	Intents IntentStore // optional
	KeyID   string      // public key handed to the checkout widget
}

func NewCheckoutService(gw payment.Gateway, intents IntentStore, keyID string) *CheckoutService {
	return &CheckoutService{Gateway: gw, Intents: intents, KeyID: keyID}
}

func (s *CheckoutService) Intent(ctx context.Context, sessionID string, cart domain.Cart, amount int64) (domain.PaymentIntent, error) {
	fp := cart.Fingerprint() + "|" + strconv.FormatInt(amount, 10)

	if s.Intents != nil {
		in, err := s.Intents.GetIntent(ctx, sessionID, fp)
		switch {
		case err == nil:
			in.KeyID = s.KeyID
			return in, nil
		case !errors.Is(err, domain.ErrNotFound):
			// a broken memo costs a duplicate gateway order, not the checkout
			applog.Error(nil, "checkout.intent.lookup.fail", err, map[string]any{"sid": sessionID})
		}
	}

	o, err := s.Gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:      amount,
		Currency:    Currency,
		AutoCapture: true,
		Receipt:     uuid.NewString(),
	})
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("create order: %w", err)
	}
	in := domain.PaymentIntent{OrderID: o.ID, Amount: amount, Currency: Currency, AutoCapture: true, KeyID: s.KeyID}

	if s.Intents != nil {
		if err := s.Intents.PutIntent(ctx, sessionID, fp, in); err != nil {
			applog.Error(nil, "checkout.intent.store.fail", err, map[string]any{"sid": sessionID, "order_id": o.ID})
		}
	}
	applog.Info(nil, "checkout.intent.created", map[string]any{"order_id": o.ID, "amount": amount})
	return in, nil
}
