package controller

import (
	"sustbazaar/database"
	"sustbazaar/model"

	"github.com/gofiber/fiber/v2"
)

// NotificationList returns the caller's offline notifications, newest
// first.
func NotificationList(c *fiber.Ctx) error {
	notifications := []model.Notification{}
	if err := database.Postgres.
		Where(&model.Notification{UserID: account(c).ID}).
		Order("id desc").
		Find(&notifications).Error; err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    notifications,
	})
}
