package routes

import (
	"github.com/labstack/echo/v4"

	"media-platform/domain/captcha"
	"media-platform/domain/content"
	"media-platform/domain/health"
	"media-platform/domain/recovery"
	"media-platform/domain/user"
	"media-platform/middleware"
)

// RegisterRoutes wires the full HTTP surface. The recovery and captcha
// handlers carry state (token store, rate limiter) and are built in main.
func RegisterRoutes(e *echo.Echo, recoveryHandler *recovery.Handler, captchaHandler *captcha.Handler) {
	// Public user routes
	e.POST("/users/register", user.RegisterHandler)
	e.POST("/users/login", user.LoginHandler)
	e.GET("/users/check-alias/:alias", user.CheckAliasHandler)

	// Credential recovery (public, forgot-password is rate limited)
	e.POST("/users/forgot-password", recoveryHandler.ForgotPassword)
	e.POST("/users/reset-password", recoveryHandler.ResetPassword)

	// CAPTCHA challenges
	e.POST("/captcha/generate", captchaHandler.Generate)
	e.POST("/captcha/verify", captchaHandler.Verify)

	// Admin routes
	adminGroup := e.Group("/users/admin", middleware.JWTMiddleware, middleware.RoleMiddleware(user.RoleAdmin))
	adminGroup.GET("/creators", user.ListCreatorsHandler)
	adminGroup.PATCH("/creators/:id", user.UpdateCreatorHandler)
	adminGroup.POST("/creators/:id/block", user.BlockCreatorHandler)
	adminGroup.POST("/creators/:id/unblock", user.UnblockCreatorHandler)
	adminGroup.DELETE("/creators/:id", user.DeleteCreatorHandler)
	e.GET("/users", user.ListUsersHandler, middleware.JWTMiddleware, middleware.RoleMiddleware(user.RoleAdmin))

	// Content catalog
	contentGroup := e.Group("/contents", middleware.JWTMiddleware)
	contentGroup.GET("", content.ListContentsHandler)
	contentGroup.GET("/favorites", content.ListFavoritesHandler)
	contentGroup.GET("/:id", content.GetContentHandler)
	contentGroup.POST("", content.CreateContentHandler, middleware.RoleMiddleware(user.RoleContentManager, user.RoleAdmin))
	contentGroup.PUT("/:id", content.UpdateContentHandler, middleware.RoleMiddleware(user.RoleContentManager, user.RoleAdmin))
	contentGroup.POST("/:id/favorite", content.AddFavoriteHandler)
	contentGroup.DELETE("/:id/favorite", content.RemoveFavoriteHandler)
	contentGroup.POST("/:id/rating", content.RateContentHandler)

	// Health probes
	e.GET("/health", health.HealthHandler)
	e.GET("/health/live", health.LivenessHandler)
	e.GET("/health/ready", health.ReadinessHandler)
	e.GET("/health/stats", health.StatsHandler)
}
