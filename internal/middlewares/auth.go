package middlewares

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/services"
)

// Authenticator resolves a bearer token to a driver, or rejects it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Driver, error)
}

// Locals keys set by RequireAuth.
const (
	DriverKey   = "driver"
	DriverIDKey = "driverID"
)

// RequireAuth guards protected routes. It rejects missing, malformed, revoked,
// expired and forged tokens, and attaches the resolved driver to the request.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: no token provided"})
		}
		tokenStr, ok := BearerToken(header)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid token format"})
		}

		driver, err := auth.Authenticate(c.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid token"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Token verification failed"})
		}

		c.Locals(DriverKey, driver)
		c.Locals(DriverIDKey, driver.ID.Hex())
		return c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tokenStr := strings.TrimSpace(header[len(prefix):])
	if tokenStr == "" {
		return "", false
	}
	return tokenStr, true
}
