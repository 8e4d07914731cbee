package services

import (
	"context"

	"rjcreations/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id int64) (*domain.User, error)
}

// IntentStore memoizes one gateway order per session and cart fingerprint.
// GetIntent returns domain.ErrNotFound on a miss.
type IntentStore interface {
	GetIntent(ctx context.Context, sessionID, fingerprint string) (domain.PaymentIntent, error)
	PutIntent(ctx context.Context, sessionID, fingerprint string, in domain.PaymentIntent) error
}
