// Package config loads application configuration from environment
// variables.  Required variables are enforced by must(): a missing value is
// a startup failure, not a runtime surprise.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Strings for identifiers
// and secrets, ints for costs and ports.
type Config struct {
	Env        string // application environment (dev/test/prod)
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign access tokens
	BcryptCost int    // bcrypt cost for password hashing

	SMTPHost string // SMTP relay host; empty disables real mail
	SMTPPort int
	SMTPFrom string
	SMTPUser string
	SMTPPass string

	ESewaProductCode string // merchant code for payment initiation
	ESewaSecret      string // HMAC key for the signed field set
}

// Load reads the configuration.  A .env file in the working directory is
// applied first when present so local development needs no exported vars.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: mustInt("BCRYPT_COST"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: atoi(getenv("SMTP_PORT", "587")),
		SMTPFrom: os.Getenv("SMTP_FROM"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		ESewaProductCode: getenv("ESEWA_PRODUCT_CODE", "EPAYTEST"),
		ESewaSecret:      getenv("ESEWA_SECRET", "8gBm/:&EnhH.1/q"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
