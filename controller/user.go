package controller

import (
	"github.com/gofiber/fiber/v2"
)

func UserProfile(c *fiber.Ctx) error {
	user := account(c)

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data": fiber.Map{
			"id":       user.ID,
			"created":  user.CreatedAt.Unix(),
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"otp":      user.Otp_enabled,
		},
	})
}
