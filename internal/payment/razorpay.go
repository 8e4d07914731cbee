package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker/v2"

	"rjcreations/internal/domain"
)

const DefaultBaseURL = "https://api.razorpay.com"

// Razorpay talks to the Orders API. Calls are never retried; after five consecutive
// failures the breaker fails fast for Cooldown.
type Razorpay struct {
	KeyID   string
	baseURL string
	secret  string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[Order]
}

type Option func(*Razorpay)

func WithBaseURL(u string) Option {
	return func(r *Razorpay) { r.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Razorpay) { r.timeout = d }
}

// Cooldown is how long the breaker stays open.
var Cooldown = 30 * time.Second

func NewRazorpay(keyID, secret string, opts ...Option) *Razorpay {
	r := &Razorpay{
		KeyID:   keyID,
		secret:  secret,
		baseURL: DefaultBaseURL,
		timeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	r.cb = gobreaker.NewCircuitBreaker[Order](gobreaker.Settings{
		Name:    "razorpay",
		Timeout: Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	})
	return r
}

type createOrderBody struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt,omitempty"`
	PaymentCapture int    `json:"payment_capture"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder posts to /v1/orders. Every failure wraps domain.ErrGateway.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	o, err := r.cb.Execute(func() (Order, error) { return r.createOrder(req) })
	if err != nil {
		if errors.Is(err, domain.ErrGateway) {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	return o, nil
}

func (r *Razorpay) createOrder(req OrderRequest) (Order, error) {
	body := createOrderBody{Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt}
	if req.AutoCapture {
		body.PaymentCapture = 1
	}

	a := fiber.Post(r.baseURL + "/v1/orders")
	a.BasicAuth(r.KeyID, r.secret)
	a.Timeout(r.timeout)
	a.JSON(body)

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return Order{}, fmt.Errorf("%w: %v", domain.ErrGateway, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		var ae apiError
		_ = json.Unmarshal(resp, &ae)
		return Order{}, fmt.Errorf("%w: status %d %s %s", domain.ErrGateway, code, ae.Error.Code, ae.Error.Description)
	}
	var o Order
	if err := json.Unmarshal(resp, &o); err != nil {
		return Order{}, fmt.Errorf("%w: decode order: %v", domain.ErrGateway, err)
	}
	if o.ID == "" {
		return Order{}, fmt.Errorf("%w: empty order id", domain.ErrGateway)
	}
	return o, nil
}
