package controller

import (
	"errors"

	"sustbazaar/apperror"
	"sustbazaar/database"
	"sustbazaar/model"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func setBanned(c *fiber.Ctx, banned bool) error {
	user := new(model.User)
	if err := database.Postgres.First(user, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, apperror.NotFound("User", err))
		}
		return errorJSON(c, err)
	}

	user.Banned = banned
	if err := database.Postgres.Save(user).Error; err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data": fiber.Map{
			"id":     user.ID,
			"banned": user.Banned,
		},
	})
}

// AdminBanUser disables an account. Existing tokens stay valid but the
// identity verifier rejects them on the next request or handshake.
func AdminBanUser(c *fiber.Ctx) error {
	return setBanned(c, true)
}

func AdminUnbanUser(c *fiber.Ctx) error {
	return setBanned(c, false)
}
