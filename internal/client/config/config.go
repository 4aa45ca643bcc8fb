package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the Eventhub CLI.
//
// APIBaseURL, when set, pins the backend address. Otherwise the address is
// derived from OriginHost: ProductionAPIURL on ProductionHost, the local
// development server anywhere else.
type Config struct {
	APIBaseURL       string
	OriginHost       string
	ProductionHost   string
	ProductionAPIURL string

	StorePath      string
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string

	ExportDir      string
	ExportBucket   string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.OriginHost = ""
	c.ProductionHost = "eventhub.app"
	c.ProductionAPIURL = "https://api.eventhub.app/api/v1"
	c.StorePath = "eventhub.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
}

// LoadConfig applies defaults, then the config file (if any), then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
