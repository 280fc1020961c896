package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the relay server settings, read from the environment. A
// .env file in the working directory is loaded first when present.
type Config struct {
	// Addr is the listen address, e.g. ":8787".
	Addr string
	// PublicURL is the externally reachable base used in invite links.
	PublicURL string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:      getenv("SKETCHSYNC_ADDR", ":8787"),
		PublicURL: getenv("SKETCHSYNC_PUBLIC_URL", "http://localhost:8787"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
