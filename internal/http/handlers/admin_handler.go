package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rjcreations/internal/domain"
	applog "rjcreations/internal/log"
	"rjcreations/internal/services"
	"rjcreations/internal/session"
	"rjcreations/internal/validate"
)

type AdminHandler struct {
	Catalog *services.CatalogService
}

// GET /admin
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return err
	}
	return render(c, "admin", fiber.Map{"Products": products})
}

// GET /admin/delete/:id
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return notFound(c, "Product not found")
	}
	err := h.Catalog.Delete(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, "Product not found")
	}
	if err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return err
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	session.From(c).AddFlash("Product deleted.")
	return c.Redirect("/admin")
}
