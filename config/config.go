package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	DatabaseURL string

	// PayPal Settings
	PayPalClientID string
	PayPalSecret   string
	PayPalMode     string // 'sandbox' or 'live'

	// Frontend origin, used for payment return/cancel URLs
	ClientURL string
}

func LoadConfig() *Config {
	// .env is optional; plain environment variables work too
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	config := &Config{
		AppPort:     getEnv("PORT", "4000"),
		HOST:        getEnv("HOST", "0.0.0.0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_SECRET"),
		PayPalMode:     getEnv("PAYPAL_MODE", "sandbox"),

		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
	}

	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
