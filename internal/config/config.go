package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort      string
	JWTSecret    string
	TokenExpires time.Duration

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string

	PushAPIURL string
	PushAPIKey string

	UseMemoryStore bool
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:            getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenExpires:       getEnvDuration("JWT_TTL_HOURS", 24) * time.Hour,
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
		EmailAPIURL:        getEnv("EMAIL_API_URL", ""),
		EmailAPIKey:        getEnv("EMAIL_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "bookings@pawnest.example"),
		PushAPIURL:         getEnv("PUSH_API_URL", ""),
		PushAPIKey:         getEnv("PUSH_API_KEY", ""),
		UseMemoryStore:     getEnv("USE_MEMORY_STORE", "false") == "true",
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed)
		}
	}
	return time.Duration(fallback)
}
