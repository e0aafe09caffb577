package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"undian/internal/auth"
)

// SessionKey is where Protected stores the resolved session in the Fiber
// context.
const SessionKey = "session"

// Protected gates a route group on one session domain. The bearer token must
// validate, the domain selected by requiredRole must still hold a session, and
// that session must belong to the token's user. Unauthenticated and
// wrong-role are distinct outcomes: 401 versus 403.
func Protected(gate auth.Gate, issuer *auth.TokenIssuer, requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := issuer.Validate(parts[1])
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		session, status := gate.RequireAuth(requiredRole)
		switch status {
		case auth.StatusUnauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Session not found, please login again",
			})
		case auth.StatusForbidden:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": auth.MsgAccessDenied,
			})
		}

		// The token must describe the user holding the session, otherwise a
		// stale token from a previous login could ride the current session.
		if userID, _ := claims["user_id"].(string); userID != session.ID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token does not match the active session",
			})
		}

		c.Locals(SessionKey, session)
		return c.Next()
	}
}
