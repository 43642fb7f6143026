// Package config loads service settings from the environment, an optional
// .env file, and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port     int
	DBPath   string
	StateKey string

	LogLevel string
	LogFile  string

	SchemeName     string
	SchoolName     string
	CurrencySymbol string

	AllowedOrigins []string

	// BackupInterval is how often a dated backup is written to the store.
	// Zero disables scheduled backups.
	BackupInterval time.Duration
}

// Load reads configuration. envFiles are optional .env files; a missing
// file is ignored, and values already in the environment win over them.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "btels.db")
	v.SetDefault("STATE_KEY", "btels-data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("SCHEME_NAME", "BADURIYA TEACHERS EMERGENCY LOAN SCHEME")
	v.SetDefault("SCHOOL_NAME", "Baduriya Central College – Mawanella")
	v.SetDefault("CURRENCY_SYMBOL", "LKR")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("BACKUP_INTERVAL", "24h")
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetInt("PORT"),
		DBPath:         v.GetString("DB_PATH"),
		StateKey:       v.GetString("STATE_KEY"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFile:        v.GetString("LOG_FILE"),
		SchemeName:     v.GetString("SCHEME_NAME"),
		SchoolName:     v.GetString("SCHOOL_NAME"),
		CurrencySymbol: v.GetString("CURRENCY_SYMBOL"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		BackupInterval: v.GetDuration("BACKUP_INTERVAL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if strings.TrimSpace(c.StateKey) == "" {
		return fmt.Errorf("STATE_KEY must not be empty")
	}
	if strings.TrimSpace(c.CurrencySymbol) == "" {
		return fmt.Errorf("CURRENCY_SYMBOL must not be empty")
	}
	if c.BackupInterval < 0 {
		return fmt.Errorf("BACKUP_INTERVAL must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
