package gorecipes

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the composition root needs, read from the
// environment (optionally seeded from a .env file).
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	MongoURI string
	Database string

	// TokenTTL is the access-token lifetime.
	TokenTTL time.Duration

	// PrivateKeyPEM and PublicKeyPEM hold the RSA signing keys. When both are
	// empty an in-memory dev pair is generated at startup.
	PrivateKeyPEM string
	PublicKeyPEM  string

	// RedisAddr enables the shared revocation store when non-empty.
	RedisAddr string
	RedisDB   int

	// Dev switches error responses to include the cause chain.
	Dev bool
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:          getenv("ADDR", ":8080"),
		MongoURI:      getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		Database:      getenv("MONGO_DATABASE", "gorecipes"),
		TokenTTL:      time.Duration(getenvInt("ACCESS_TOKEN_LIFE", 3600)) * time.Second,
		PrivateKeyPEM: os.Getenv("PRIVATE_KEY"),
		PublicKeyPEM:  os.Getenv("PUBLIC_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		Dev:           os.Getenv("DEV_MODE") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
