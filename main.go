package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sustbazaar/config"
	"sustbazaar/database"
	"sustbazaar/event"
	"sustbazaar/event/listener"
	"sustbazaar/identity"
	"sustbazaar/router"
	"sustbazaar/socketio"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("sustbazaar: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "sustbazaar",
	})

	rest.Use(cors.New())

	database.RedisConnect()
	database.PostgresConnect()

	event.RabbitMQConnect([]string{
		// Connect to queues
		"notifications",
	})

	// Run notifications listener
	go listener.Notifications()

	// Subscribe listener channel to "notifications" events
	event.RabbitMQSubscribe([]event.RabbitMQSubscribeListener{
		{
			Queue:   "notifications",
			Channel: listener.NotificationsChannel,
		},
	})

	// Init event logs
	event.Init()

	verifier := identity.NewVerifier(database.Postgres)
	socket := socketio.Init(rest, verifier)

	router.Rest(rest)
	router.Socket(socket, database.Postgres)

	go rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT")))

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	socket.Close(nil)
	event.RabbitMQChannel.Close()
	event.RabbitMQConnection.Close()
	event.InLogFile.Close()
	event.OutLogFile.Close()
	os.Exit(0)
}
