// Package config handles application configuration loading and validation.
//
// Configuration is loaded from an optional config.yml, validated using struct tags,
// completed with defaults and finally overridden by the environment (API_KEY,
// BUS_STOP_CODE_A, BUS_STOP_CODE_B), which may also come from a .env file.
package config
