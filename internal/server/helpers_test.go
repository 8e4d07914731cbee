package server_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rjcreations/internal/http/handlers"
	"rjcreations/internal/payment"
	"rjcreations/internal/repos"
	"rjcreations/internal/server"
	"rjcreations/internal/services"
	"rjcreations/internal/session"
)

const (
	adminEmail = "admin@rjcreations.test"
	adminPass  = "Adm1n!pass"
)

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
	return payment.Order{ID: fmt.Sprintf("order_T%d", len(f.calls)), Amount: req.Amount, Currency: req.Currency}, nil
}

func (f *fakeGateway) snapshot() []payment.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]payment.OrderRequest(nil), f.calls...)
}

type testApp struct {
	app *fiber.App
	db  *sqlx.DB
	gw  *fakeGateway
}

type option func(*server.Options)

func newTestApp(t *testing.T, opts ...option) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher := services.BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash(adminPass)
	require.NoError(t, err)
	_, err = repos.SeedAdmin(context.Background(), db, adminEmail, hash)
	require.NoError(t, err)

	gw := &fakeGateway{}
	prods := repos.NewProductRepo(db)
	catalog := services.NewCatalogService(prods)
	cart := services.NewCartService(prods, services.NewCheckoutService(gw, repos.NewIntentRepo(db), "rzp_test_key"))
	auth := services.NewAuthService(repos.NewUserRepo(db), hasher)

	o := server.Options{Sessions: session.NewManager("test-secret", time.Hour, false)}
	for _, fn := range opts {
		fn(&o)
	}
	app, err := server.New(handlers.NewDeps(catalog, cart, auth), o)
	require.NoError(t, err)
	return &testApp{app: app, db: db, gw: gw}
}

// browser keeps cookies between requests the way a real client would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

func (ta *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: ta.app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		b.cookies[c.Name] = c
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post submits a form with the CSRF token, fetching one first if needed.
func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	if _, ok := b.cookies["csrf_"]; !ok {
		b.get("/login")
	}
	require.Contains(b.t, b.cookies, "csrf_")
	form.Set("csrf", b.cookies["csrf_"].Value)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email, pass string) *http.Response {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"email": {email}, "password": {pass}})
	return resp
}

func (b *browser) register(email, pass string) (*http.Response, string) {
	b.t.Helper()
	return b.post("/register", url.Values{"email": {email}, "password": {pass}, "confirm": {pass}})
}
