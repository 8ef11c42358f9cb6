package config

import "time"

// APIConfig contains the DataMall client configuration
type APIConfig struct {
	BaseURL            string  `yaml:"baseURL" validate:"omitempty,url"`
	Key                string  `yaml:"key"`
	TimeoutMS          int     `yaml:"timeoutMS" validate:"gte=0"`
	RateLimitPerSecond float64 `yaml:"rateLimitPerSecond" validate:"gte=0"`
}

// Timeout is the per-request HTTP timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesURL" validate:"omitempty,url"`
	APIKeyHeader   string `yaml:"apiKeyHeader"`
	APIKey         string `yaml:"apiKey"`
	StaticPath     string `yaml:"staticPath"` // optional GTFS zip for route names
}

// SourceConfig selects where arrivals come from
type SourceConfig struct {
	Kind   string       `yaml:"kind" validate:"omitempty,oneof=datamall gtfsrt"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
}

// StopConfig is one column of the board
type StopConfig struct {
	Code  string `yaml:"code"`
	Title string `yaml:"title" validate:"max=64"`
}

// StopsConfig holds the two displayed stops
type StopsConfig struct {
	A StopConfig `yaml:"a"`
	B StopConfig `yaml:"b"`
}

// DisplayConfig contains panel and font settings
type DisplayConfig struct {
	Panel   string `yaml:"panel" validate:"omitempty,oneof=waveshare png"`
	SPIPort string `yaml:"spiPort"`
	Output  string `yaml:"output"`
	Width   int    `yaml:"width" validate:"gte=0"`
	Height  int    `yaml:"height" validate:"gte=0"`

	// Font is a TTF path, "basic", or empty for Go Bold.
	Font string `yaml:"font"`
	// FontSize is given for the 800x480 reference size and scaled with the panel.
	FontSize float64 `yaml:"fontSize" validate:"gte=0"`
}

// PollConfig contains the refresh schedule
type PollConfig struct {
	IntervalMS int `yaml:"intervalMS" validate:"gte=0"`
}

// Interval is the wait between refreshes.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// ServerConfig contains status server configuration
type ServerConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port" validate:"gte=0,lte=65535"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	API     APIConfig     `yaml:"api"`
	Source  SourceConfig  `yaml:"source"`
	Stops   StopsConfig   `yaml:"stops"`
	Display DisplayConfig `yaml:"display"`
	Poll    PollConfig    `yaml:"poll"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}
