// Package config loads runtime configuration for the DentaCare client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c, -config or
//     $DENTACARE_CONFIG.
//  3. Environment variables DENTACARE_* (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the DentaCare API
//	-t duration   per-request timeout
//	-s string     token storage backend (cookie, sqlite, memory)
//	-p string     token storage file
//	-l string     UI locale
//	-i int        session check interval (seconds)
//
// # JSON schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://clinic.example",
//	  "request_timeout": "5s",
//	  "retry_count": 2,
//	  "storage_backend": "sqlite",
//	  "storage_path": "/home/me/.config/dentacare/session.db",
//	  "encryption_passphrase": "s3cret",
//	  "locale": "fr",
//	  "notification_duration": "5s",
//	  "session_check_interval": "1m",
//	  "log_level": "info"
//	}
//
// # Environment
//
// Every field has a DENTACARE_ variable: DENTACARE_API_BASE_URL,
// DENTACARE_REQUEST_TIMEOUT, DENTACARE_RETRY_COUNT,
// DENTACARE_STORAGE_BACKEND, DENTACARE_STORAGE_PATH,
// DENTACARE_ENCRYPTION_PASSPHRASE, DENTACARE_LOCALE,
// DENTACARE_NOTIFICATION_DURATION, DENTACARE_SESSION_CHECK_INTERVAL and
// DENTACARE_LOG_LEVEL.
package config
