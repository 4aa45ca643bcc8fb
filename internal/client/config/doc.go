// Package config loads runtime configuration for the Eventhub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c / -config, or
//     $EVENTHUB_CONFIG. A .yaml or .yml extension selects YAML.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   explicit backend base URL
//	-o string   origin host name
//	-d string   credential store path
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # File schema
//
//	{
//	  "api_base_url": "https://staging.example.com/api/v1",
//	  "origin_host": "eventhub.app",
//	  "store_path": "eventhub.db",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "log_format": "zerolog",
//	  "export_dir": "exports",
//	  "export_bucket": "attendee-exports",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123"
//	}
//
// The YAML form uses the same keys.
//
// The backend address is resolved per request, so EVENTHUB_API_URL and
// EVENTHUB_ORIGIN_HOST in the environment still override these values at
// run time (see package client).
package config
