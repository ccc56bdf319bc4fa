package controller

import (
	"strconv"

	"sustbazaar/apperror"
	"sustbazaar/chat"
	"sustbazaar/database"
	"sustbazaar/model"

	"github.com/gofiber/fiber/v2"
)

type ChatCreateInput struct {
	CounterpartyID  uint  `json:"counterparty_id"`
	ProductID       *uint `json:"product_id"`
	AccommodationID *uint `json:"accommodation_id"`
}

func account(c *fiber.Ctx) *model.User {
	return c.Locals("account").(*model.User)
}

func errorJSON(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	return c.Status(appErr.Status).JSON(fiber.Map{
		"status":  "error",
		"message": appErr.Message,
		"data":    nil,
	})
}

// ChatList returns the caller's threads, most recently active first.
func ChatList(c *fiber.Ctx) error {
	threads, err := chat.NewDirectory(database.Postgres).ListThreadsFor(account(c).ID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    threads,
	})
}

// ChatCreate resolves or creates the thread for the caller, a counterparty
// and an optional listing. With no counterparty given, the listing's owner
// is the counterparty.
func ChatCreate(c *fiber.Ctx) error {
	input := new(ChatCreateInput)
	if err := c.BodyParser(input); err != nil {
		return errorJSON(c, apperror.InvalidRequest("Review your input", err))
	}

	thread, err := chat.NewDirectory(database.Postgres).GetOrCreate(
		account(c).ID,
		input.CounterpartyID,
		chat.ListingRef{
			ProductID:       input.ProductID,
			AccommodationID: input.AccommodationID,
		},
	)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    thread,
	})
}

// ChatMessages returns the full ordered history. Retrieval marks the other
// participant's unread messages as read.
func ChatMessages(c *fiber.Ctx) error {
	chatID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorJSON(c, apperror.InvalidRequest("Invalid chat id", err))
	}

	caller := account(c)
	service := chat.NewService(database.Postgres)

	if _, err := service.Directory().AssertParticipant(uint(chatID), caller.ID); err != nil {
		return errorJSON(c, err)
	}

	messages, err := service.Store().ListFor(uint(chatID), caller.ID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    messages,
	})
}
