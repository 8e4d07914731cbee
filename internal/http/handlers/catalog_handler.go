package handlers

import (
	"github.com/gofiber/fiber/v2"

	"rjcreations/internal/services"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *CatalogHandler) Index(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "index", fiber.Map{"Products": products})
}
