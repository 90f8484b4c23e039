package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/digipin/internal/pkg/metrics"
)

const storeTimeout = 15 * time.Second

// legacyEncodeSunset is when GET /v1/digipin?lat=&lon= goes away.
var legacyEncodeSunset = time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 600 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/v1/digipin", SunsetDate: legacyEncodeSunset, Alternative: "/v1/digipin/encode"},
	}))

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Codec (pure computation, no timeout)
	v1.Get("/digipin/encode", EncodeHandler(deps))
	v1.Post("/digipin/encode/batch", BatchEncodeHandler(deps))
	v1.Get("/digipin/decode/:code", DecodeHandler(deps))
	v1.Get("/digipin/bounds/:code", BoundsHandler(deps))
	v1.Get("/digipin", EncodeHandler(deps))

	// Places, 15s per-request timeout
	if deps.Places != nil {
		v1.Post("/places", timeout.NewWithContext(CreatePlaceHandler(deps), storeTimeout))
		v1.Get("/places/nearby", timeout.NewWithContext(NearbyPlacesHandler(deps), storeTimeout))
		v1.Get("/places/by-code/:code", timeout.NewWithContext(PlacesByCodeHandler(deps), storeTimeout))
		v1.Get("/places/cell/:prefix", timeout.NewWithContext(PlacesInCellHandler(deps), storeTimeout))
		v1.Get("/places/:id", timeout.NewWithContext(GetPlaceHandler(deps), storeTimeout))
		v1.Delete("/places/:id", timeout.NewWithContext(DeletePlaceHandler(deps), storeTimeout))
	}

	if deps.Tracking != nil {
		v1.Post("/fixes", timeout.NewWithContext(IngestFixHandler(deps), storeTimeout))
	}

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.SpecPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
