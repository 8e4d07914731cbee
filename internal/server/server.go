package server

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"rjcreations/internal/http/handlers"
	applog "rjcreations/internal/log"
	"rjcreations/internal/session"
	"rjcreations/web"
)

type Options struct {
	Sessions *session.Manager
	// GlobalLimit is requests per minute per IP; 0 disables it.
	GlobalLimit int
	// AuthLimit caps POST /login and POST /register per IP per 10 minutes; 0 disables it.
	AuthLimit    int
	CookieSecure bool
	// AccessLog disables the per-request access log line when false.
	AccessLog bool
}

func DefaultOptions(sessions *session.Manager) Options {
	return Options{Sessions: sessions, GlobalLimit: 60, AuthLimit: 5, AccessLog: true}
}

// New builds the storefront app: middleware stack, static assets and routes.
func New(deps *handlers.Deps, opts Options) (*fiber.App, error) {
	tmpl, err := fs.Sub(web.FS, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}

	engine := html.NewFileSystem(http.FS(tmpl), ".html")
	engine.AddFunc("money", func(v float64) string { return fmt.Sprintf("%.2f", v) })

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
		// session cookie plus csrf cookie; the cart cap keeps the session well under this
		ReadBufferSize: 16 << 10,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New(helmet.Config{
		// the Razorpay checkout script is cross-origin
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(static)}))
	if opts.GlobalLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.GlobalLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/static/")
			},
		}))
	}
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   opts.CookieSecure,
		CookieHTTPOnly: true,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			c.Status(fiber.StatusForbidden)
			applog.Security(c, "csrf.fail", nil)
			return c.Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(opts.Sessions.Middleware())
	app.Use(handlers.LoadUser(deps.Auth))

	// ---------- Routes ----------
	app.Get("/", deps.CatalogHandler.Index)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	app.Get("/add_to_cart/:id", deps.CartHandler.Add)
	app.Get("/cart", deps.CartHandler.View)

	authLimit := func(c *fiber.Ctx) error { return c.Next() }
	if opts.AuthLimit > 0 {
		authLimit = limiter.New(limiter.Config{
			Max:        opts.AuthLimit,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|" + c.Path()
			},
			LimitReached: func(c *fiber.Ctx) error {
				c.Status(fiber.StatusTooManyRequests)
				applog.Security(c, "rate.auth.hit", nil)
				return c.Render("notfound", fiber.Map{"Message": "Too many attempts. Please try again later."})
			},
		})
	}
	app.Get("/register", deps.AuthHandler.RegisterForm)
	app.Post("/register", authLimit, deps.AuthHandler.Register)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", authLimit, deps.AuthHandler.Login)
	app.Get("/logout", handlers.RequireUser(), deps.AuthHandler.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin())
	admin.Get("/", deps.AdminHandler.Products)
	admin.Get("/delete/:id", deps.AdminHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(handlers.NotFound)

	return app, nil
}
