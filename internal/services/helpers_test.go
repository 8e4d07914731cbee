package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"rjcreations/internal/payment"
	"rjcreations/internal/repos"
	"rjcreations/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []payment.OrderRequest
	err   error
}

func (f *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (payment.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return payment.Order{}, f.err
	}
	return payment.Order{ID: fmt.Sprintf("order_%d", len(f.calls)), Amount: req.Amount, Currency: req.Currency}, nil
}

func (f *fakeGateway) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newCartService(db *sqlx.DB, gw payment.Gateway) *services.CartService {
	checkout := services.NewCheckoutService(gw, repos.NewIntentRepo(db), "rzp_test_key")
	return services.NewCartService(repos.NewProductRepo(db), checkout)
}

func newAuthService(db *sqlx.DB) *services.AuthService {
	return services.NewAuthService(repos.NewUserRepo(db), services.BcryptHasher{Cost: bcrypt.MinCost})
}
