package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied to zero values after validation.
const (
	DefaultBaseURL      = "https://datamall2.mytransport.sg"
	DefaultTimeoutMS    = 10000
	DefaultRateLimit    = 5
	DefaultTitleA       = "Downstairs"
	DefaultTitleB       = "Opposite"
	DefaultIntervalMS   = 30000
	DefaultPort         = 16181
	DefaultPanel        = "png"
	DefaultOutput       = "busboard.png"
	DefaultWidth        = 800
	DefaultHeight       = 480
	DefaultFontSize     = 32
	DefaultSourceKind   = "datamall"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultAPIKeyHeader = "x-api-key"
	envAPIKey           = "API_KEY"
	envStopA            = "BUS_STOP_CODE_A"
	envStopB            = "BUS_STOP_CODE_B"
	dotenvFile          = ".env"
)

// SearchPaths are tried in order when no explicit path is given.
var SearchPaths = []string{"config.yml", "./busboard/config.yml"}

// Load reads the configuration. An explicit path must exist; without one the
// search paths are tried and a missing file just means defaults plus environment.
func Load(path string) (*AppConfig, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode: %w", err)
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfig(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return data, nil
	}
	for _, p := range SearchPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return nil, nil
}

// Validate checks struct tags and the rules that span fields.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Source.Kind == "gtfsrt" && cfg.Source.GTFSRT.TripUpdatesURL == "" {
		return errors.New("config: source.gtfsrt.tripUpdatesURL is required when source.kind is gtfsrt")
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	setString(&cfg.API.BaseURL, DefaultBaseURL)
	setInt(&cfg.API.TimeoutMS, DefaultTimeoutMS)
	if cfg.API.RateLimitPerSecond == 0 {
		cfg.API.RateLimitPerSecond = DefaultRateLimit
	}

	setString(&cfg.Source.Kind, DefaultSourceKind)
	setString(&cfg.Source.GTFSRT.APIKeyHeader, DefaultAPIKeyHeader)

	setString(&cfg.Stops.A.Title, DefaultTitleA)
	setString(&cfg.Stops.B.Title, DefaultTitleB)

	setString(&cfg.Display.Panel, DefaultPanel)
	setString(&cfg.Display.Output, DefaultOutput)
	setInt(&cfg.Display.Width, DefaultWidth)
	setInt(&cfg.Display.Height, DefaultHeight)
	if cfg.Display.FontSize == 0 {
		cfg.Display.FontSize = DefaultFontSize
	}

	setInt(&cfg.Poll.IntervalMS, DefaultIntervalMS)
	setInt(&cfg.Server.Port, DefaultPort)

	setString(&cfg.Logging.Level, DefaultLogLevel)
	setString(&cfg.Logging.Format, DefaultLogFormat)
}

// applyEnv loads .env (without overriding variables already set) and lets the
// environment override the key and stop codes.
func applyEnv(cfg *AppConfig) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: %s: %w", dotenvFile, err)
	}
	if v, ok := os.LookupEnv(envAPIKey); ok && v != "" {
		cfg.API.Key = v
	}
	if v, ok := os.LookupEnv(envStopA); ok && v != "" {
		cfg.Stops.A.Code = v
	}
	if v, ok := os.LookupEnv(envStopB); ok && v != "" {
		cfg.Stops.B.Code = v
	}
	return nil
}

// Missing lists required-at-runtime values that are empty. They are not rejected:
// the upstream API reports them, but callers should warn.
func (c *AppConfig) Missing() []string {
	var out []string
	if c.Source.Kind == DefaultSourceKind && c.API.Key == "" {
		out = append(out, envAPIKey)
	}
	if c.Stops.A.Code == "" {
		out = append(out, envStopA)
	}
	if c.Stops.B.Code == "" {
		out = append(out, envStopB)
	}
	return out
}

func setString(p *string, def string) {
	if *p == "" {
		*p = def
	}
}

func setInt(p *int, def int) {
	if *p == 0 {
		*p = def
	}
}
