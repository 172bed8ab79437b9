package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix is prepended to every variable name, e.g. DENTACARE_API_BASE_URL.
const EnvPrefix = "DENTACARE"

// parseEnv overlays Config with the DENTACARE_* variables that are set.
// Unset variables leave the current value alone. It panics when a value
// cannot be parsed.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		panic(err)
	}
}
