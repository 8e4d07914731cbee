package handlers

import (
	"github.com/gofiber/fiber/v2"

	"rjcreations/internal/domain"
	"rjcreations/internal/session"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		// Locals is only populated on the request that minted the token
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	s := session.From(c)
	data["Flashes"] = s.Flashes()
	n := 0
	for _, q := range s.Cart {
		n += q
	}
	data["CartCount"] = n
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return render(c, "notfound", fiber.Map{"Message": msg})
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// NotFound is the catch-all for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return notFound(c, "Page not found")
}
