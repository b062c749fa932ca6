package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Env            string
	Port           string
	MongoURI       string
	MongoDatabase  string
	StoreDriver    string
	JWTSecret      string
	AdminSecret    string
	AllowedOrigins []string
	Location       *time.Location
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	env := EnvName()

	tzName := envOr("TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("invalid TIMEZONE value %q, using local time", tzName)
		loc = time.Local
	}

	port := envOr("PORT", "8080")
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		Env:            env,
		Port:           port,
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDatabase:  envOr("MONGODB_NAME", "gestao"),
		StoreDriver:    envOr("STORE_DRIVER", "mongo"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminSecret:    os.Getenv("ADMIN_SECRET_KEY"),
		AllowedOrigins: splitList(envOr("ALLOWED_ORIGINS", "http://localhost:5173")),
		Location:       loc,
		CacheTTL:       time.Duration(envInt("CACHE_TTL_SECONDS", 120)) * time.Second,
		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// EnvName returns APP_ENV, defaulting to development.
func EnvName() string {
	return envOr("APP_ENV", "development")
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
