package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/office-seat-allocation/internal/config"     // import middleware configuration types
	"github.com/iliyamo/office-seat-allocation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/office-seat-allocation/internal/metrics"    // import the Prometheus registry exposed at /metrics
	"github.com/iliyamo/office-seat-allocation/internal/middleware" // import middleware for JWT authentication and rate limiting
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check and the Prometheus metrics
// endpoint.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	// Expose the application's Prometheus registry.  Only metrics registered
	// through internal/metrics appear here, not the Go runtime defaults.
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}

// RegisterAuth registers the administrative login endpoint.  The provided
// AuthHandler checks the configured admin credentials and issues access
// tokens for the protected routes.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	// Register a POST endpoint to exchange admin credentials for a token.
	g.POST("/login", a.Login)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  These routes return office listings, seat listings and
// occupancy data; no JWT middleware is applied so that dashboards can read
// them without a session.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Expose list of all offices in creation order
	e.GET("/v1/offices", p.ListOffices)
	// List seats of a specific office, ordered by seat number
	e.GET("/v1/offices/:id/seats", p.ListSeats)
	// Per-office occupancy summary (totals, occupied, available)
	e.GET("/v1/occupancy", p.Occupancy)
	// The same summary rendered as a PNG bar chart
	e.GET("/v1/occupancy.png", p.OccupancyChart)
}

// RegisterAdmin registers the protected administrative endpoints.  All
// handlers on this group execute the JWTAuth middleware before being
// invoked, and mutating traffic is additionally rate limited.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	admin := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	admin.Use(middleware.JWTAuth(jwtSecret))
	// Apply the Redis-backed fixed-window rate limiter.
	admin.Use(middleware.RateLimit(rlCfg, rdb))
	// Create an office together with its initial seat pool.
	admin.POST("/offices", h.CreateOffice)
	// Add a single seat to an existing office.
	admin.POST("/offices/:id/seats", h.CreateSeat)
	// Reset an occupied seat back to available.
	admin.POST("/seats/:id/release", h.ReleaseSeat)
	// Run an allocation batch.
	admin.POST("/allocate", h.Allocate)
}
