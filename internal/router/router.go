package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/uniliving/backend/internal/config"
	"github.com/uniliving/backend/internal/handler"
	"github.com/uniliving/backend/internal/middleware"
)

// Handlers bundles everything the route registrations need.
type Handlers struct {
	Auth       *handler.AuthHandler
	Properties *handler.PropertyHandler
	Images     *handler.ImageHandler
	Categories *handler.CategoryHandler
	Favorites  *handler.FavoriteHandler
	Profile    *handler.ProfileHandler
}

// Register wires every route of the API onto the Echo instance.  The
// Redis client may be nil, in which case rate limiting and response
// caching degrade to pass-through.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	rateLimit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	// Session lifecycle.  The whole group is rate limited so credential
	// stuffing and token guessing are throttled per client IP.
	auth := e.Group("/api/auth", rateLimit)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public browse endpoints.  Read-only, so responses are served from the
	// Redis cache when available.
	e.GET("/api/categories", h.Categories.List, cache)
	e.GET("/api/properties", h.Properties.List, cache)
	e.GET("/api/properties/:id", h.Properties.Get, cache)
	e.GET("/api/properties/:id/images", h.Images.List, cache)

	// Image bytes require a session of any role.  The file store resolves
	// only names it generated itself, so the :file parameter can never
	// escape the storage root.
	e.GET("/api/properties/:id/images/:file", h.Images.File,
		middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("LANDLORD", "TENANT", "ADMIN"))

	// Landlord endpoints: listing CRUD and image management.
	landlord := e.Group("/api", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("LANDLORD", "ADMIN"))
	landlord.POST("/properties", h.Properties.Create)
	landlord.GET("/properties/mine", h.Properties.Mine)
	landlord.PUT("/properties/:id", h.Properties.Update)
	landlord.DELETE("/properties/:id", h.Properties.Delete)
	landlord.POST("/properties/:id/images", h.Images.Upload)
	landlord.POST("/properties/images/:imageId/set-main", h.Images.SetMain)
	landlord.DELETE("/properties/images/:imageId", h.Images.Delete)

	// Own-account endpoints, open to every authenticated role.
	profile := e.Group("/api/profile", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("LANDLORD", "TENANT", "ADMIN"))
	profile.GET("", h.Profile.Get)
	profile.PUT("", h.Profile.Update)
	profile.DELETE("", h.Profile.Delete)

	// Tenant endpoints: saved listings.
	tenant := e.Group("/api/favorites", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("TENANT", "ADMIN"))
	tenant.GET("", h.Favorites.List)
	tenant.POST("/:propertyId", h.Favorites.Add)
	tenant.DELETE("/:propertyId", h.Favorites.Remove)
}
