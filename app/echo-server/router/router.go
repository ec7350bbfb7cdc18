package router

import (
	"resaleMarket/internal/middleware"
	"resaleMarket/internal/rest"

	"github.com/labstack/echo/v4"
)

// SetFeedRoutes mounts the home feed and search. Both accept anonymous
// callers; a valid bearer token only personalises the ranking.
func SetFeedRoutes(api *echo.Group, handler *rest.FeedHandler, jwtSecret string) {
	optionalAuth := middleware.OptionalAuth(jwtSecret)

	api.GET("/feed/home", handler.Home, optionalAuth)
	api.GET("/search", handler.Search, optionalAuth)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
}

func SetOpsRoutes(e *echo.Echo, health *rest.HealthHandler, metricsHandler echo.HandlerFunc) {
	e.GET("/healthz", health.Health)
	e.GET("/metrics", metricsHandler)
}
