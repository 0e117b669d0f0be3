// Package server exposes the HTTP surface of the bot: the WhatsApp
// webhook endpoints and the JWT-protected admin API over service
// requests.
package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/mediax"
	"github.com/ridermall/riderbot/msgx"
	"github.com/ridermall/riderbot/requests"
)

// Options wires the server to its collaborators
type Options struct {
	Provider   msgx.Provider
	Dispatcher *dialogx.Dispatcher
	Store      requests.Store
	Resolver   mediax.Resolver

	// Admin surface; not mounted when AdminPass or JWTSecret is empty
	AdminUser string
	AdminPass string
	JWTSecret string
	JWTTTL    int64 // seconds
}

// Server holds the Fiber app and its collaborators
type Server struct {
	app  *fiber.App
	opts Options
}

// New builds the app with all routes registered
func New(opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "riderbot",
		DisableStartupMessage: true,
	})

	s := &Server{app: app, opts: opts}

	app.Get("/", s.handleHealth)
	app.Get("/webhook", s.handleWebhookVerify)
	app.Post("/webhook", s.handleWebhookEvent)

	if opts.AdminPass != "" && opts.JWTSecret != "" {
		admin := app.Group("/admin")
		admin.Post("/login", s.handleAdminLogin)

		protected := admin.Use(s.requireJWT)
		protected.Get("/requests", s.handleListRequests)
		protected.Get("/requests/export", s.handleExportRequests)
		protected.Patch("/requests/:id/status", s.handleUpdateStatus)
		protected.Get("/media/:id", s.handleMediaProxy)
	}

	return s
}

// App exposes the underlying Fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.SendString("riderbot ok")
}
