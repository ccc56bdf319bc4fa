package router

import (
	"sustbazaar/controller"
	"sustbazaar/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Rest(app *fiber.App) {
	api := app.Group("/v1", logger.New())

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", controller.AuthSignup)
	auth.Post("/signin", controller.AuthSignin)
	auth.Post("/token/renew", controller.AuthTokenRenew)
	auth.Post("/2fa/secret", middleware.JWT(), middleware.OTP(), controller.AuthOtpSecret)
	auth.Post("/2fa/verify", middleware.JWT(), middleware.OTP(), controller.AuthOtpVerify)
	auth.Post("/2fa/validate", middleware.JWT(), controller.AuthOtpValidate)
	auth.Post("/2fa/disable", middleware.JWT(), middleware.OTP(), controller.AuthOtpDisable)

	// User
	user := api.Group("/user", middleware.JWT(), middleware.OTP(), middleware.Identity())
	user.Get("/profile", controller.UserProfile)

	// Chats
	api.Get("/chats", middleware.JWT(), middleware.OTP(), middleware.Identity(), controller.ChatList)
	api.Post("/chats/create", middleware.JWT(), middleware.OTP(), middleware.Identity(), controller.ChatCreate)
	api.Get("/chats/:id/messages", middleware.JWT(), middleware.OTP(), middleware.Identity(), controller.ChatMessages)

	// Notifications
	api.Get("/notifications", middleware.JWT(), middleware.OTP(), middleware.Identity(), controller.NotificationList)

	// Admin
	admin := api.Group("/admin", middleware.JWT(), middleware.OTP(), middleware.Identity(), middleware.RBAC())
	admin.Post("/users/:id/ban", controller.AdminBanUser)
	admin.Post("/users/:id/unban", controller.AdminUnbanUser)
}
