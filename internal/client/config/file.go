package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/eventhub/internal/flagx"
	"github.com/dmitrijs2005/eventhub/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// Durations use timex.Duration so they may be strings like "15s" or integer
// nanoseconds.
type FileConfig struct {
	APIBaseURL       string         `json:"api_base_url" yaml:"api_base_url"`
	OriginHost       string         `json:"origin_host" yaml:"origin_host"`
	ProductionHost   string         `json:"production_host" yaml:"production_host"`
	ProductionAPIURL string         `json:"production_api_url" yaml:"production_api_url"`
	StorePath        string         `json:"store_path" yaml:"store_path"`
	RequestTimeout   timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	LogFormat        string         `json:"log_format" yaml:"log_format"`
	ExportDir        string         `json:"export_dir" yaml:"export_dir"`
	ExportBucket     string         `json:"export_bucket" yaml:"export_bucket"`
	S3Region         string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey      string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseFile overlays cfg with the file named by -c/-config or
// $EVENTHUB_CONFIG. Files ending in .yaml or .yml are read as YAML, anything
// else as JSON. Keys absent from the file keep their current value.
func parseFile(cfg *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &jc)
	default:
		err = json.Unmarshal(data, &jc)
	}
	if err != nil {
		return err
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.OriginHost, jc.OriginHost)
	overlay(&cfg.ProductionHost, jc.ProductionHost)
	overlay(&cfg.ProductionAPIURL, jc.ProductionAPIURL)
	overlay(&cfg.StorePath, jc.StorePath)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.ExportDir, jc.ExportDir)
	overlay(&cfg.ExportBucket, jc.ExportBucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
