package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DbName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

func (p PostgresConfig) DbUrl() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, url.QueryEscape(p.Password), p.Host, p.Port, p.DbName, sslMode,
	)
}

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type Config struct {
	Mode           string          `json:"mode"`
	Addr           string          `json:"addr"`
	AllowedOrigins []string        `json:"allowed_origins"`
	Difficulty     string          `json:"difficulty"`
	TickInterval   Duration        `json:"tick_interval"`
	Log            LogConfig       `json:"log"`
	Postgres       *PostgresConfig `json:"postgres"`
	DatabaseUrl    string          `json:"database_url"`
}

func Default() Config {
	return Config{
		Mode:         "production",
		Addr:         "localhost:8080",
		Difficulty:   "beginner",
		TickInterval: Duration{time.Second},
		Log: LogConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Read loads the config file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Read(path string) (Config, error) {
	config := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("unable to read config %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &config); err != nil {
			return config, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	if err := config.applyEnv(); err != nil {
		return config, err
	}
	return config, nil
}

func loadPassword() (string, bool, error) {
	password, ok := os.LookupEnv("POSTGRES_PASSWORD")
	if ok {
		return password, true, nil
	}

	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", false, nil
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", false, fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), true, nil
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		key   string
		field *string
	}{
		{"SWEEPER_MODE", &c.Mode},
		{"SWEEPER_ADDR", &c.Addr},
		{"SWEEPER_DIFFICULTY", &c.Difficulty},
		{"SWEEPER_LOG_LEVEL", &c.Log.Level},
		{"SWEEPER_LOG_FILE", &c.Log.File},
		{"DATABASE_URL", &c.DatabaseUrl},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok {
			*o.field = v
		}
	}

	if v, ok := os.LookupEnv("SWEEPER_TICK_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SWEEPER_TICK_INTERVAL: %w", err)
		}
		c.TickInterval.Duration = d
	}

	if c.Postgres != nil {
		password, ok, err := loadPassword()
		if err != nil {
			return fmt.Errorf("unable to load password: %w", err)
		}
		if ok {
			c.Postgres.Password = password
		}
	}
	return nil
}

// DbUrl returns the database to record outcomes in. ok is false when no
// database is configured.
func (c Config) DbUrl() (dbUrl string, ok bool) {
	if c.DatabaseUrl != "" {
		return c.DatabaseUrl, true
	}
	if c.Postgres != nil {
		return c.Postgres.DbUrl(), true
	}
	return "", false
}

func (c Config) Fields() logrus.Fields {
	fields := logrus.Fields{
		"mode":          c.Mode,
		"addr":          c.Addr,
		"origins":       c.AllowedOrigins,
		"difficulty":    c.Difficulty,
		"tick_interval": c.TickInterval.Duration.String(),
		"log_level":     c.Log.Level,
		"log_file":      c.Log.File,
	}
	if c.Postgres != nil {
		fields["pg_host"] = c.Postgres.Host
		fields["pg_port"] = c.Postgres.Port
		fields["pg_user"] = c.Postgres.User
		fields["pg_db_name"] = c.Postgres.DbName
	}
	_, fields["outcomes_enabled"] = c.DbUrl()
	return fields
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}
