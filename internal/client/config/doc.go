// Package config loads runtime configuration for the eproduct CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend, e.g. http://localhost:8000
//	-t int      request timeout (seconds)
//	-s string   path of the local SQLite database
//	-l string   log level: debug, info, warn or error
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8000",
//	  "request_timeout": "10s",
//	  "storage_path": "eproduct.db",
//	  "log_level": "info",
//	  "download_dir": "download"
//	}
//
// Keys missing from the file keep their earlier value.
package config
