package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "rjcreations/internal/log"
	"rjcreations/internal/services"
	"rjcreations/internal/session"
	"rjcreations/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /add_to_cart/:id
func (h *CartHandler) Add(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return notFound(c, goneMsg)
	}
	s := session.From(c)
	cart, err := h.Cart.Add(s.Cart, strconv.FormatInt(id, 10))
	if errors.Is(err, services.ErrCartFull) {
		applog.Info(c, "cart.full", map[string]any{"product": id})
		s.AddFlash("Your cart is full. Please check out before adding more products.")
		return c.Redirect("/cart")
	}
	if err != nil {
		return err
	}
	s.SetCart(cart)
	s.AddFlash("Added to cart")
	return c.Redirect("/cart")
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	s := session.From(c)
	cv, err := h.Cart.View(c.UserContext(), s.ID, s.Cart)
	if err != nil {
		return err
	}
	if len(cv.Missing) > 0 {
		cart := s.Cart
		for _, id := range cv.Missing {
			delete(cart, id)
		}
		s.SetCart(cart)
		s.AddFlash("Some items are no longer available and were removed from your cart.")
		applog.Info(c, "cart.stale.removed", map[string]any{"products": cv.Missing})
	}
	if cv.CheckoutErr != "" {
		applog.Error(c, "cart.checkout.unavailable", nil, map[string]any{"total": cv.Total})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}
