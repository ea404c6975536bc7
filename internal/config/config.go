package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"ledger/internal/money"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Caller identity. Tokens are issued by the external auth provider and
	// verified here with a shared HMAC secret.
	JWTSecret string
	JWTIssuer string

	// Ledger
	Currency string

	// Mutation events. Publishing is disabled when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string
}

// Load loads configuration from environment variables. It is called once at
// process start; the result is passed explicitly to whatever needs it.
func Load() (*Config, error) {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTIssuer: getEnv("JWT_ISSUER", ""),

		Currency: strings.ToUpper(getEnv("CURRENCY", money.DefaultCurrency)),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger"),
	}

	if !money.IsCurrency(config.Currency) {
		log.Printf("Warning: unknown CURRENCY value '%s', falling back to %s\n", config.Currency, money.DefaultCurrency)
		config.Currency = money.DefaultCurrency
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
