package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvFile is loaded before the environment is read; variables already set
// in the process environment take precedence over the file.
var dotEnvFile = ".env"

// parseEnv overlays Config with values from environment variables named in
// the struct tags. Unset variables leave the current values untouched.
// An unreadable .env file (other than a missing one) or a malformed value
// panics, like the JSON and flag parsers.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
