package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var load sync.Once

// Config fetches a key from the environment, loading .env once on first use.
// Safe for concurrent callers.
func Config(key string) string {
	load.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("no .env file found, using environment")
		}
	})

	return os.Getenv(key)
}
