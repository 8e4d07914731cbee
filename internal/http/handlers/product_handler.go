package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rjcreations/internal/domain"
	"rjcreations/internal/log"
	"rjcreations/internal/services"
	"rjcreations/internal/validate"
)

const goneMsg = "This item is no longer available"

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /product/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		c.Status(fiber.StatusNotFound)
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, goneMsg)
	}
	p, err := h.Catalog.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, goneMsg)
	}
	if err != nil {
		return err
	}
	return render(c, "product", fiber.Map{"P": p})
}
