package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the application's configuration.
type Config struct {
	KiwisHost       string
	DocumentsHost   string
	Port            string
	UpstreamTimeout time.Duration
	AllowedOrigins  []string
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	// load env variables
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg := Config{
		KiwisHost:       os.Getenv("KIWIS_HOST"),
		DocumentsHost:   os.Getenv("DOCUMENTS_HOST"),
		Port:            os.Getenv("PORT"),
		UpstreamTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"*"},
	}
	if cfg.KiwisHost == "" {
		cfg.KiwisHost = "https://kiwis.innetag.ch"
	}
	if cfg.DocumentsHost == "" {
		cfg.DocumentsHost = "https://data.monitron.ch"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if timeout := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT_SECONDS '%s': %w", timeout, err)
		}
		cfg.UpstreamTimeout = time.Duration(seconds) * time.Second
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	return cfg, nil
}
