package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type Product struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Price       float64 `db:"price"`
	Image       string  `db:"image"`
	Description string  `db:"description"`
}

// Cart maps a product id (decimal string) to a quantity >= 1.
type Cart map[string]int

// Add bumps the quantity for productID by one, inserting it if absent.
func (c Cart) Add(productID string) {
	c[productID]++
}

// Fingerprint is a stable encoding of the cart contents, independent of map order.
func (c Cart) Fingerprint() string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id+":"+strconv.Itoa(c[id]))
	}
	return strings.Join(parts, ",")
}

type CartLine struct {
	Product  Product
	Qty      int
	Subtotal float64
}

type CartView struct {
	Lines       []CartLine
	Total       float64
	Missing     []string // ids whose product no longer exists
	Intent      *PaymentIntent
	CheckoutErr string
}

// IntentTTL bounds how long a memoized gateway order may be reused.
const IntentTTL = 30 * time.Minute

// PaymentIntent is the gateway order handed to the client-side checkout widget.
type PaymentIntent struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"` // minor units
	Currency    string `json:"currency"`
	AutoCapture bool   `json:"auto_capture"`
	KeyID       string `json:"key_id,omitempty"`
}
