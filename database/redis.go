package database

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"sustbazaar/config"

	"github.com/redis/go-redis/v9"
)

// Redis holds one client per configured database number. DB 0 backs the
// refresh-token store, DB 1 the socket.io adapter.
var Redis = make(map[int]*redis.Client)

func RedisConnect() {
	for _, db := range strings.Split(config.Config("REDIS_DB"), ",") {
		dbNumber, _ := strconv.Atoi(db)

		Redis[dbNumber] = redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf(
				"%s:%s",
				config.Config("REDIS_HOST"),
				config.Config("REDIS_PORT"),
			),
			Password: config.Config("REDIS_PASSWORD"),
			DB:       dbNumber,
		})
	}

	log.Printf("Connections opened to Redis")
}
