package middleware

import (
	"net/http"
	"strings"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/jwtutil"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and stores the operator identity in
// the request context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store operator info in context for handlers
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)

		return next(c)
	}
}

// RequireRole gates an endpoint to operators holding one of the given roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			role, ok := c.Get("user_role").(string)
			if !ok {
				log.Warn("Role missing from request context")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			log.Warn("Operator role not permitted", zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// UserIDFromContext retrieves the authenticated operator's ID.
// Returns 0, false when the request is unauthenticated.
func UserIDFromContext(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// RoleFromContext retrieves the authenticated operator's role
func RoleFromContext(c echo.Context) (string, bool) {
	role, ok := c.Get("user_role").(string)
	return role, ok
}
