package middleware

import (
	"sustbazaar/apperror"
	"sustbazaar/database"
	"sustbazaar/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Identity runs the same verifier the realtime handshake uses: the JWT
// middleware has already checked the signature, this re-resolves the
// account and rejects banned or deleted ones. The resolved user is stored
// in Locals("account").
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)

		account, err := identity.NewVerifier(database.Postgres).Verify(token.Raw)
		if err != nil {
			appErr := apperror.From(err)
			return c.Status(appErr.Status).JSON(fiber.Map{
				"status":  "error",
				"message": appErr.Message,
				"data":    nil,
			})
		}

		c.Locals("account", account)
		return c.Next()
	}
}
