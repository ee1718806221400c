package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                string
	GinMode             string
	FirebaseProjectID   string
	FirebaseCredsBase64 string
	FirebaseCredsFile   string
	JamfURL             string
	JamfClientID        string
	JamfClientSecret    string
	JamfUser            string
	JamfPass            string
	OfficeNets          string
	SlackWebhookURL     string
	Timezone            string
	PollCron            string
	ReportCron          string
	MonthEndCron        string
	AllowedOrigins      string
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "release"),
		FirebaseProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredsBase64: strings.TrimSpace(os.Getenv("FIREBASE_CREDS_BASE64")),
		FirebaseCredsFile:   strings.TrimSpace(os.Getenv("FIREBASE_CREDS_FILE")),
		JamfURL:             strings.TrimRight(strings.TrimSpace(os.Getenv("JAMF_URL")), "/"),
		JamfClientID:        strings.TrimSpace(os.Getenv("JAMF_CLIENT_ID")),
		JamfClientSecret:    strings.TrimSpace(os.Getenv("JAMF_CLIENT_SECRET")),
		JamfUser:            strings.TrimSpace(os.Getenv("JAMF_USER")),
		JamfPass:            os.Getenv("JAMF_PASS"),
		OfficeNets:          strings.TrimSpace(os.Getenv("OFFICE_NETS")),
		SlackWebhookURL:     strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		Timezone:            getEnv("TIMEZONE", "Asia/Tokyo"),
		PollCron:            getEnv("POLL_CRON", "0 * * * MON-FRI"),
		ReportCron:          getEnv("REPORT_CRON", "30 18 * * MON-FRI"),
		MonthEndCron:        getEnv("MONTH_END_CRON", "45 18 * * *"),
		AllowedOrigins:      strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
		return errors.New("provide FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE for Firestore auth")
	}
	if c.JamfURL == "" {
		return errors.New("JAMF_URL is required")
	}
	if c.OfficeNets == "" {
		return errors.New("OFFICE_NETS is required")
	}
	if c.SlackWebhookURL == "" {
		return errors.New("SLACK_WEBHOOK_URL is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured fixed timezone. Validate must have passed.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}
