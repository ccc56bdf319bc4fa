package router

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"sustbazaar/apperror"
	"sustbazaar/chat"
	"sustbazaar/event"
	"sustbazaar/model"

	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Realtime payloads
type SocketUser struct {
	Id       uint   `json:"id"`
	Username string `json:"username"`
}

type SocketMessage struct {
	Id      uint       `json:"id"`
	Created time.Time  `json:"created"`
	Chat    uint       `json:"chat_id"`
	Sender  SocketUser `json:"sender"`
	Text    string     `json:"text"`
	Read    bool       `json:"read"`
}

type SocketError struct {
	Chat    uint   `json:"chat_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ChatNotification struct {
	UserID uint   `json:"user_id"`
	ChatID uint   `json:"chat_id"`
	From   string `json:"from"`
	Text   string `json:"text"`
}

func chatRoom(chatID uint) socket.Room {
	return socket.Room("chat_" + strconv.FormatUint(uint64(chatID), 10))
}

func userRoom(userID uint) socket.Room {
	return socket.Room(strconv.FormatUint(uint64(userID), 10))
}

// Socket wires the relay events. Joining and sending are both authorized
// against the directory's membership record; every attempt gets an
// explicit ack or error event back.
func Socket(server *socket.Server, db *gorm.DB) {
	service := chat.NewService(db)

	server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		client.On("join_chat", func(args ...interface{}) {
			user, ok := client.Data().(*model.User)
			if !ok {
				return
			}

			chatID := payloadUint(args, "chat_id")
			if chatID == 0 {
				client.Emit("join_error", SocketError{
					Code:    apperror.CodeInvalidRequest,
					Message: "Missing chat id",
				})
				return
			}

			if _, err := service.Directory().AssertParticipant(chatID, user.ID); err != nil {
				appErr := apperror.From(err)
				log.Printf("join_chat rejected: user=%d chat=%d code=%s", user.ID, chatID, appErr.Code)
				client.Emit("join_error", SocketError{
					Chat:    chatID,
					Code:    appErr.Code,
					Message: appErr.Message,
				})
				return
			}

			client.Join(chatRoom(chatID))
		})

		client.On("send_message", func(args ...interface{}) {
			user, ok := client.Data().(*model.User)
			if !ok {
				return
			}

			chatID := payloadUint(args, "chat_id")
			text := payloadString(args, "message")

			message, thread, err := service.SendMessage(chatID, user.ID, text)
			if err != nil {
				appErr := apperror.From(err)
				log.Printf("send_message rejected: user=%d chat=%d code=%s", user.ID, chatID, appErr.Code)
				client.Emit("message_error", SocketError{
					Chat:    chatID,
					Code:    appErr.Code,
					Message: appErr.Message,
				})
				return
			}

			payload := SocketMessage{
				Id:      message.ID,
				Created: message.CreatedAt,
				Chat:    message.ChatID,
				Sender: SocketUser{
					Id:       message.Sender.ID,
					Username: message.Sender.Username,
				},
				Text: message.Text,
				Read: message.Read,
			}

			server.To(chatRoom(chatID)).Emit("receive_message", payload)
			client.Emit("message_sent", payload)

			// Recipient with no live connection in the chat room gets a
			// broker-backed notification instead.
			recipient := thread.Counterpart(user.ID)
			if !recipientInChatRoom(server, chatID, recipient) && event.RabbitMQChannel != nil {
				notification, _ := json.Marshal(ChatNotification{
					UserID: recipient,
					ChatID: chatID,
					From:   message.Sender.Username,
					Text:   message.Text,
				})
				event.Emit("notifications", "chat_message", notification, true)
			}
		})
	})
}

// recipientInChatRoom reports whether any of the user's connections has
// joined the chat room. The adapter keys rooms by socket id, and every
// connection sits in its user's room, so membership is the intersection
// of the chat room's ids with the user room's ids.
func recipientInChatRoom(server *socket.Server, chatID, userID uint) bool {
	rooms := server.Sockets().Adapter().Rooms()

	chatSockets, ok := rooms.Load(chatRoom(chatID))
	if !ok {
		return false
	}
	userSockets, ok := rooms.Load(userRoom(userID))
	if !ok {
		return false
	}

	for _, id := range userSockets.Keys() {
		if chatSockets.Has(id) {
			return true
		}
	}
	return false
}

// socket.io object payloads arrive as map[string]interface{} with JSON
// number decoding; ids may also come in as strings.
func payloadUint(args []interface{}, key string) uint {
	if len(args) == 0 {
		return 0
	}
	payload, ok := args[0].(map[string]interface{})
	if !ok {
		return 0
	}
	switch value := payload[key].(type) {
	case float64:
		return uint(value)
	case string:
		id, _ := strconv.ParseUint(value, 10, 64)
		return uint(id)
	}
	return 0
}

func payloadString(args []interface{}, key string) string {
	if len(args) == 0 {
		return ""
	}
	payload, ok := args[0].(map[string]interface{})
	if !ok {
		return ""
	}
	value, _ := payload[key].(string)
	return value
}
