package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"rjcreations/internal/domain"
	applog "rjcreations/internal/log"
)

// ErrorHandler renders a friendly page for any error a handler returns. Internal details
// are logged, never shown.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."

	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code, msg = fiber.StatusNotFound, "Page not found"
	case errors.Is(err, domain.ErrForbidden):
		code, msg = fiber.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Redirect("/login")
	case errors.As(err, &fe):
		code = fe.Code
		if code == fiber.StatusNotFound {
			msg = "Page not found"
		} else if code < fiber.StatusInternalServerError {
			msg = utils.StatusMessage(code)
		}
	}

	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
