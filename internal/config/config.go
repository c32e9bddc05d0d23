package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// AppConfig holds everything the tracker needs from the environment. The
// keys and the device MAC come from the deployment's secrets.
type AppConfig struct {
	APIKey          string `validate:"required"`
	ApplicationKey  string `validate:"required"`
	DeviceMAC       string `validate:"required"`
	SpreadsheetID   string `validate:"required"`
	CredentialsFile string `validate:"required"`
	SensorMapFile   string `validate:"required"`
	Port            string
}

var validate = validator.New()

// Load reads configuration from the environment. A .env file is honored
// when present. Fields without defaults must be set or Load fails.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Infof("no .env file loaded: %v", err)
	}

	cfg := &AppConfig{
		APIKey:          os.Getenv("API_KEY"),
		ApplicationKey:  os.Getenv("APP_KEY"),
		DeviceMAC:       os.Getenv("MAC_ADD"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		SensorMapFile:   getenvDefault("SENSOR_MAP_FILE", "/app/config/headers.txt"),
		Port:            getenvDefault("PORT", "8080"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("incomplete configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
