// Package config reads the service settings from the environment, with an
// optional .env file for development.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	DatabaseURL   string
	TokenKey      []byte
	TLSCert       string
	TLSKey        string
	MaterialsPath string
	SessionTTL    time.Duration
}

// Load reads the environment. A missing .env file is fine in production;
// TOKEN_KEY is the only hard requirement.
func Load() (Config, error) {
	_ = godotenv.Load()

	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}

	cfg := Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8443"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		TokenKey:      []byte(tokenKey),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
		MaterialsPath: os.Getenv("MATERIALS_PATH"),
		SessionTTL:    2 * time.Hour,
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, errors.New("SESSION_TTL is not a duration")
		}
		cfg.SessionTTL = d
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
