package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsUserID = "user_id"

// ActiveUsers lets the middleware reject tokens of deleted or disabled accounts.
type ActiveUsers interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// Middleware authenticates "Authorization: Bearer <access token>" and stores the
// caller's id in the request locals. users may be nil.
func Middleware(issuer *Issuer, users ActiveUsers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := issuer.Parse(strings.TrimSpace(parts[1]), TokenAccess)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if users != nil {
			active, err := users.IsActive(UserContext(c), claims.UserID)
			if err != nil {
				return err
			}
			if !active {
				return fiber.NewError(fiber.StatusUnauthorized, "User not found")
			}
		}

		c.Locals(localsUserID, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated caller set by Middleware.
func UserID(c *fiber.Ctx) (string, error) {
	if uid, ok := c.Locals(localsUserID).(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}

func UserContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
