package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"

	"rjcreations/internal/domain"
)

const checkoutUnavailable = "Checkout is temporarily unavailable. Please try again shortly."

// MaxCartLines caps distinct products per cart; the cart travels in a cookie.
const MaxCartLines = 50

var ErrCartFull = errors.New("cart is full")

type CartService struct {
	Prods    ProductRepository
	Checkout *CheckoutService
}

func NewCartService(prods ProductRepository, checkout *CheckoutService) *CartService {
	return &CartService{Prods: prods, Checkout: checkout}
}

// Add increments productID by one. The id is not checked against the catalog here;
// View reports entries that do not resolve. A new product beyond MaxCartLines is refused
// with ErrCartFull and the cart is returned unchanged.
func (s *CartService) Add(cart domain.Cart, productID string) (domain.Cart, error) {
	if cart == nil {
		cart = domain.Cart{}
	}
	if _, ok := cart[productID]; !ok && len(cart) >= MaxCartLines {
		return cart, ErrCartFull
	}
	cart.Add(productID)
	return cart, nil
}

// View prices the cart against current product rows and, for a non-empty cart, attaches a
// payment intent. Entries whose product is gone land in Missing. A gateway failure leaves
// Intent nil and sets CheckoutErr instead of failing the view.
func (s *CartService) View(ctx context.Context, sessionID string, cart domain.Cart) (domain.CartView, error) {
	ids := make([]string, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})

	cv := domain.CartView{Lines: []domain.CartLine{}}
	for _, id := range ids {
		qty := cart[id]
		pid, err := strconv.ParseInt(id, 10, 64)
		if err != nil || qty < 1 {
			cv.Missing = append(cv.Missing, id)
			continue
		}
		p, err := s.Prods.Get(ctx, pid)
		if errors.Is(err, domain.ErrNotFound) {
			cv.Missing = append(cv.Missing, id)
			continue
		}
		if err != nil {
			return domain.CartView{}, err
		}
		sub := float64(qty) * p.Price
		cv.Lines = append(cv.Lines, domain.CartLine{Product: p, Qty: qty, Subtotal: sub})
		cv.Total += sub
	}

	if cv.Total <= 0 || s.Checkout == nil {
		return cv, nil
	}
	priced := make(domain.Cart, len(cv.Lines))
	for _, l := range cv.Lines {
		priced[strconv.FormatInt(l.Product.ID, 10)] = l.Qty
	}
	in, err := s.Checkout.Intent(ctx, sessionID, priced, MinorUnits(cv.Total))
	if err != nil {
		if !errors.Is(err, domain.ErrGateway) {
			return domain.CartView{}, err
		}
		cv.CheckoutErr = checkoutUnavailable
		return cv, nil
	}
	cv.Intent = &in
	return cv, nil
}

// MinorUnits converts a rupee amount to paise, rounding to the nearest unit.
func MinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}
