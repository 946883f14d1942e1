package middleware

import (
	"log"
	"strings"

	"isoko/internal/models"
	"isoko/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys populated from validated token claims.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "user_role"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(LocalUserID, claims["user_id"])
		c.Locals(LocalEmail, claims["email"])
		c.Locals(LocalRole, claims["role"])

		// Continue to the next handler
		return c.Next()
	}
}

// OptionalAuth populates the caller identity when a valid token is supplied
// and lets anonymous requests pass through untouched. Public endpoints whose
// behavior branches on role (the product listing) use this.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				c.Locals(LocalUserID, claims["user_id"])
				c.Locals(LocalEmail, claims["email"])
				c.Locals(LocalRole, claims["role"])
			}
			// An invalid token on a public route is treated as anonymous.
		}
		return c.Next()
	}
}

// AdminOnly rejects callers whose role claim is not admin. Must run after
// AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CallerRole(c) != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin privileges required",
			})
		}
		return c.Next()
	}
}

// CallerRole returns the authenticated caller's role, or "" for anonymous.
func CallerRole(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocalRole).(string); ok {
		return role
	}
	return ""
}

// CallerID returns the authenticated caller's user id, or "" for anonymous.
func CallerID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalUserID).(string); ok {
		return id
	}
	return ""
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", false
	}
	return parts[1], true
}
