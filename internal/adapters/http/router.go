package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

// SetupRoutes registers all REST routes and the shared middleware stack.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout; the voice turn gets more
	// headroom because it chains three vendor calls.
	v1 := app.Group("/v1")
	v1.Get("/properties/search", timeout.NewWithContext(SearchPropertiesHandler(deps), 15*time.Second))
	v1.Get("/properties/:id", timeout.NewWithContext(GetPropertyHandler(deps), 15*time.Second))
	v1.Get("/places/nearby", timeout.NewWithContext(NearbyPlacesHandler(deps), 15*time.Second))
	v1.Get("/places/photo", timeout.NewWithContext(PlacePhotoHandler(deps), 15*time.Second))

	// Agent surface
	v1.Post("/agent/tools", timeout.NewWithContext(AgentToolsHandler(deps), 15*time.Second))
	v1.Get("/agent/tools", ListToolsHandler(deps))
	v1.Get("/agent/tools/echo", EchoToolsHandler(deps))
	v1.Post("/agent/route", timeout.NewWithContext(RouteUtteranceHandler(deps), 15*time.Second))
	v1.Post("/agent/command", PostCommandHandler(deps))
	v1.Get("/agent/command", TakeCommandHandler(deps))

	// Voice agent (multipart upload)
	v1.Post("/voice/agent", timeout.NewWithContext(VoiceAgentHandler(deps), 60*time.Second))
}
