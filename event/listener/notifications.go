package listener

import (
	"encoding/json"
	"log"
	"strconv"

	"sustbazaar/database"
	"sustbazaar/event"
	"sustbazaar/model"
	"sustbazaar/socketio"
)

var (
	NotificationsChannel = make(chan event.EventChannelData)
)

type chatMessageEvent struct {
	UserID uint   `json:"user_id"`
	ChatID uint   `json:"chat_id"`
	From   string `json:"from"`
	Text   string `json:"text"`
}

// Notifications consumes the notifications queue: each chat_message event
// becomes a persisted Notification row and, when the recipient reconnects
// on another instance, a directed emit to their user room.
func Notifications() {
	for ev := range NotificationsChannel {
		switch ev.Action {
		case "chat_message":
			data := chatMessageEvent{}
			if err := json.Unmarshal(ev.Data, &data); err != nil {
				log.Printf("notifications: malformed chat_message event: %v", err)
				continue
			}

			notification := model.Notification{
				UserID:  data.UserID,
				Kind:    "chat_message",
				ChatID:  data.ChatID,
				Payload: string(ev.Data),
			}
			if err := database.Postgres.Create(&notification).Error; err != nil {
				log.Printf("notifications: failed to persist: %v", err)
				continue
			}

			if ev.Out.Send {
				socketio.Emit(
					strconv.FormatUint(uint64(data.UserID), 10),
					"notification",
					notification,
				)
			}
		default:
			log.Printf("notifications: unknown action %q", ev.Action)
		}
	}
}
