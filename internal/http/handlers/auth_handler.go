package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"rjcreations/internal/domain"
	"rjcreations/internal/log"
	"rjcreations/internal/services"
	"rjcreations/internal/session"
)

const badCredsMsg = "Invalid credentials."

type AuthHandler struct {
	Auth *services.AuthService
}

// GET /register
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Email": ""})
}

// POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	pass := c.FormValue("password")

	var err error
	if pass != c.FormValue("confirm") {
		err = &domain.ValidationError{Field: "confirm", Msg: "Passwords do not match."}
	} else {
		_, err = h.Auth.Register(c.UserContext(), email, pass)
	}

	var ve *domain.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		log.Security(c, "validation.fail", map[string]any{"field": ve.Field})
		return render(c, "register", fiber.Map{"Err": ve.Msg, "Email": email})
	case errors.Is(err, domain.ErrConflict):
		c.Status(fiber.StatusConflict)
		log.Security(c, "auth.register.conflict", map[string]any{"email": email})
		return render(c, "register", fiber.Map{"Err": "An account with that email already exists.", "Email": email})
	default:
		return err
	}

	log.Audit(c, "auth.register.success", map[string]any{"email": email})
	session.From(c).AddFlash("Registered successfully.")
	return c.Redirect("/login")
}

// GET /login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Email": ""})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	pass := c.FormValue("password")
	if email == "" || pass == "" {
		c.Status(fiber.StatusBadRequest)
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "missing_field"})
		return render(c, "login", fiber.Map{"Err": "Email and password are required.", "Email": email})
	}

	u, err := h.Auth.Login(c.UserContext(), email, pass)
	if errors.Is(err, services.ErrBadCreds) {
		c.Status(fiber.StatusUnauthorized)
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return render(c, "login", fiber.Map{"Err": badCredsMsg, "Email": email})
	}
	if err != nil {
		return err
	}

	session.From(c).Login(u.ID)
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

// GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session.From(c).Logout()
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
