package socketio

import (
	"context"
	"strconv"
	"time"

	"sustbazaar/apperror"
	"sustbazaar/config"
	"sustbazaar/database"
	"sustbazaar/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	eiolog "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var server *socket.Server

// Init mounts the socket.io endpoint on the Fiber app. Every connection
// must present a valid credential at handshake; the verifier failure kinds
// map to a refused connection instead of an anonymous session.
func Init(app *fiber.App, verifier *identity.Verifier) *socket.Server {
	if config.Config("SOCKET_DEBUG") == "true" {
		eiolog.DEBUG = true
	}

	options := socket.DefaultServerOptions()
	options.SetServeClient(true)
	options.SetAllowEIO3(true)
	options.SetPingInterval(300 * time.Millisecond)
	options.SetPingTimeout(200 * time.Millisecond)
	options.SetConnectTimeout(1000 * time.Millisecond)
	options.SetAdapter(&adapter.RedisAdapterBuilder{
		Redis: r_type.NewRedisClient(context.Background(), database.Redis[1]),
		Opts:  &adapter.RedisAdapterOptions{},
	})

	server = socket.NewServer(nil, nil)

	server.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		token, _ := client.Conn().Request().Query().Get("token")

		user, err := verifier.Verify(token)
		if err != nil {
			appErr := apperror.From(err)
			next(socket.NewExtendedError(appErr.Message, appErr.Code))
			return
		}

		// Every connection sits in its user's room for directed emits.
		client.Join(socket.Room(strconv.FormatUint(uint64(user.ID), 10)))
		client.SetData(user)
		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))

	return server
}

func Broadcast(event string, message any) {
	server.FetchSockets()(func(sockets []*socket.RemoteSocket, _ error) {
		for _, socket := range sockets {
			socket.Emit(event, message)
		}
	})
}

// Emit sends an event to every connection in a user's room.
func Emit(id string, event string, message any) {
	server.To(socket.Room(id)).Emit(event, message)
}
