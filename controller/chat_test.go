package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sustbazaar/database"
	"sustbazaar/middleware"
	"sustbazaar/model"
	"sustbazaar/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	t.Setenv("JWT_ACCESS_KEY", "test-access-key")
	t.Setenv("JWT_ACCESS_EXPIRE", "15")
	t.Setenv("JWT_REFRESH_KEY", "test-refresh-key")
	t.Setenv("JWT_REFRESH_EXPIRE", "60")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Accommodation{},
		&model.Chat{},
		&model.Message{},
		&model.Notification{},
	))
	database.Postgres = db

	app := fiber.New(fiber.Config{StrictRouting: true})
	api := app.Group("/v1")
	api.Get("/chats", middleware.JWT(), middleware.OTP(), middleware.Identity(), ChatList)
	api.Post("/chats/create", middleware.JWT(), middleware.OTP(), middleware.Identity(), ChatCreate)
	api.Get("/chats/:id/messages", middleware.JWT(), middleware.OTP(), middleware.Identity(), ChatMessages)

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@student.sust.edu", Password: "x", Role: "user"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, user *model.User) string {
	t.Helper()
	tokens, err := utils.GenerateTokens(fmt.Sprint(user.ID), false)
	require.NoError(t, err)
	return "Bearer " + tokens.Access
}

func doJSON(t *testing.T, app *fiber.App, method, target, bearer string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	payload := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestChatRoutesRequireAuth(t *testing.T) {
	app, _ := newChatApp(t)

	resp := doJSON(t, app, http.MethodGet, "/v1/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/chats/create", "", fiber.Map{"counterparty_id": 2})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChatCreateSelfRejected(t *testing.T) {
	app, db := newChatApp(t)
	alice := createUser(t, db, "alice")

	resp := doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"counterparty_id": alice.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatCreateMissingListing(t *testing.T) {
	app, db := newChatApp(t)
	alice := createUser(t, db, "alice")

	resp := doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"product_id": 999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatCreateIdempotent(t *testing.T) {
	app, db := newChatApp(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	product := &model.Product{OwnerID: bob.ID, Title: "router", Price: 1200}
	require.NoError(t, db.Create(product).Error)

	resp := doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"product_id": product.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeData(t, resp)["data"].(map[string]interface{})

	resp = doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"product_id": product.ID, "counterparty_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decodeData(t, resp)["data"].(map[string]interface{})

	assert.Equal(t, first["ID"], second["ID"])
}

func TestChatMessagesAccessControl(t *testing.T) {
	app, db := newChatApp(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	mallory := createUser(t, db, "mallory")

	resp := doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"counterparty_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	chat := new(model.Chat)
	require.NoError(t, db.First(chat).Error)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/v1/chats/%d/messages", chat.ID), bearerFor(t, mallory), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/v1/chats/999/messages", bearerFor(t, alice), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/v1/chats/%d/messages", chat.ID), bearerFor(t, alice), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatMessagesMarksRead(t *testing.T) {
	app, db := newChatApp(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	resp := doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"counterparty_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	chat := new(model.Chat)
	require.NoError(t, db.First(chat).Error)

	require.NoError(t, db.Create(&model.Message{ChatID: chat.ID, SenderID: alice.ID, Text: "hello"}).Error)
	require.NoError(t, db.Create(&model.Message{ChatID: chat.ID, SenderID: bob.ID, Text: "hi"}).Error)

	// Bob fetches: alice's message flips, bob's own does not.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/v1/chats/%d/messages", chat.ID), bearerFor(t, bob), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored := []model.Message{}
	require.NoError(t, db.Order("id asc").Find(&stored).Error)
	assert.True(t, stored[0].Read)
	assert.False(t, stored[1].Read)
}

func TestBannedUserRejected(t *testing.T) {
	app, db := newChatApp(t)
	mallory := createUser(t, db, "mallory")
	bearer := bearerFor(t, mallory)

	require.NoError(t, db.Model(mallory).Update("banned", true).Error)

	resp := doJSON(t, app, http.MethodGet, "/v1/chats", bearer, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestChatList(t *testing.T) {
	app, db := newChatApp(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	resp := doJSON(t, app, http.MethodPost, "/v1/chats/create", bearerFor(t, alice),
		fiber.Map{"counterparty_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	chat := new(model.Chat)
	require.NoError(t, db.First(chat).Error)
	require.NoError(t, db.Create(&model.Message{ChatID: chat.ID, SenderID: bob.ID, Text: "hey"}).Error)

	resp = doJSON(t, app, http.MethodGet, "/v1/chats", bearerFor(t, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeData(t, resp)
	threads := payload["data"].([]interface{})
	require.Len(t, threads, 1)

	thread := threads[0].(map[string]interface{})
	counterpart := thread["counterpart"].(map[string]interface{})
	assert.Equal(t, "bob", counterpart["username"])
	assert.EqualValues(t, 1, thread["unread_count"])

	last := thread["last_message"].(map[string]interface{})
	assert.Equal(t, "hey", last["text"])
}
