package middleware

import (
	"github.com/labstack/echo/v4"

	"media-platform/pkg/apperrors"
)

// RoleMiddleware admits only callers whose role matches one of the allowed
// roles. It assumes JWTMiddleware already populated the context.
func RoleMiddleware(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, want := range allowed {
				if role == want {
					return next(c)
				}
			}
			return apperrors.RespondWithError(c, apperrors.NewForbidden(
				apperrors.ErrCodeForbidden,
				"Access denied.",
			))
		}
	}
}
