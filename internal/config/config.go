package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Kapici"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		Backend string `envconfig:"STORAGE_BACKEND" default:"file"`
		DataDir string `envconfig:"DATA_DIR" default:"data"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"kapici"`
	}

	Sheets struct {
		// ServiceAccount holds the service-account credentials JSON itself,
		// not a file path; the legacy deployment passed it the same way.
		ServiceAccount string `envconfig:"GOOGLE_SERVICE_ACCOUNT"`
		SpreadsheetID  string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	}

	Auth struct {
		JWTSecret         string        `envconfig:"JWT_SECRET" default:"change-me"`
		TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
		StaffUsername     string        `envconfig:"STAFF_USERNAME" default:"caretaker"`
		StaffPasswordHash string        `envconfig:"STAFF_PASSWORD_HASH"`
	}

	Building struct {
		Blocks        []string `envconfig:"BLOCKS" default:"A,B,C"`
		UnitsPerBlock int      `envconfig:"UNITS_PER_BLOCK" default:"10"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
