package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rjcreations/internal/domain"
	applog "rjcreations/internal/log"
	"rjcreations/internal/services"
	"rjcreations/internal/session"
)

// LoadUser resolves the session principal into c.Locals("user"). A principal whose user
// row is gone is dropped and the request continues anonymously.
func LoadUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := session.From(c)
		if !s.Authenticated() {
			return c.Next()
		}
		u, err := auth.CurrentUser(c.UserContext(), s.UserID)
		switch {
		case err == nil:
			c.Locals("user", u)
			c.Locals(applog.UserIDKey, u.ID)
		case errors.Is(err, domain.ErrNotFound):
			applog.Security(c, "session.principal.stale", map[string]any{"uid": s.UserID})
			s.Logout()
		default:
			return err
		}
		return c.Next()
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAdmin is RequireUser plus a 403 for non-admins.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Redirect("/login")
		}
		if !u.IsAdmin {
			c.Status(fiber.StatusForbidden)
			applog.Security(c, "access.denied.admin", nil)
			return render(c, "notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}
