package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dentacare/internal/flagx"
	"github.com/dmitrijs2005/dentacare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Pointer fields tell an absent
// key from a zero value.
type JsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	RetryCount           *int            `json:"retry_count"`
	StorageBackend       *string         `json:"storage_backend"`
	StoragePath          *string         `json:"storage_path"`
	EncryptionPassphrase *string         `json:"encryption_passphrase"`
	Locale               *string         `json:"locale"`
	NotificationDuration *timex.Duration `json:"notification_duration"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays Config with the keys present in a JSON file.
//
// The file is chosen with -c or -config, or $DENTACARE_CONFIG (see
// flagx.JsonConfigFlags). Without one the function returns. It panics on
// read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.RetryCount, jc.RetryCount)
	setIf(&cfg.StorageBackend, jc.StorageBackend)
	setIf(&cfg.StoragePath, jc.StoragePath)
	setIf(&cfg.EncryptionPassphrase, jc.EncryptionPassphrase)
	setIf(&cfg.Locale, jc.Locale)
	setIf(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.NotificationDuration != nil {
		cfg.NotificationDuration = jc.NotificationDuration.Duration
	}
	if jc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
