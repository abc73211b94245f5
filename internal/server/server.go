package server

import (
	"log"
	"time"

	"pillsee-be/internal/bootstrap"
	"pillsee-be/internal/config"
	"pillsee-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: (cfg.Pipeline.MaxImageSizeMB + 1) * 1024 * 1024,
	})

	// Anonymous API: no credentials, no auth headers
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	textLimiter := newRateLimiter(cfg.Pipeline.TextQueriesPerMinute)
	imageLimiter := newRateLimiter(cfg.Pipeline.ImageQueriesPerMinute)

	c.QueryController.RegisterRoutes(api, textLimiter, imageLimiter)
	c.SessionController.RegisterRoutes(api)
	c.HealthController.RegisterRoutes(app)
}

func newRateLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "Too many requests, slow down"))
		},
	})
}
