package utils

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/partycluster/partycluster/pkg/file"
)

// Duration wraps time.Duration so that "30s"-style values parse from
// YAML, which yaml.v3 does not do for time.Duration directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the structure of the configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"` // Logging level (trace, debug, info, warn, error)

	Ingest struct {
		HTTPTimeout Duration `yaml:"http_timeout"` // Timeout for a single feed fetch
		CacheWindow Duration `yaml:"cache_window"` // How long a fetched feed body may be served from cache
		Workers     int      `yaml:"workers"`      // Number of concurrent feed fetchers
		Progress    bool     `yaml:"progress"`     // Render a terminal progress bar over feeds
	} `yaml:"ingest"`

	Geocode struct {
		Provider         string   `yaml:"provider"`          // Reverse geocoder: google, geonames or none
		MapsAPIKey       string   `yaml:"maps_api_key"`      // Google Maps API key
		GeoNamesUsername string   `yaml:"geonames_username"` // Registered GeoNames account name
		Timeout          Duration `yaml:"timeout"`           // Timeout per geocoding request
	} `yaml:"geocode"`

	Report struct {
		MinClusterSize int `yaml:"min_cluster_size"` // Smallest cluster reported as a candidate gathering
	} `yaml:"report"`
}

// DefaultConfig returns a Config populated with working defaults, used
// when no configuration file is present.
func DefaultConfig() *Config {
	var config Config
	config.LogLevel = "info"
	config.Ingest.HTTPTimeout = Duration(30 * time.Second)
	config.Ingest.CacheWindow = Duration(time.Hour)
	config.Ingest.Workers = 8
	config.Ingest.Progress = true
	config.Geocode.Provider = "geonames"
	config.Geocode.GeoNamesUsername = "demo"
	config.Geocode.Timeout = Duration(10 * time.Second)
	config.Report.MinClusterSize = 3
	return &config
}

// LoadConfig loads the YAML configuration from the specified file on top
// of the defaults. A missing file is not an error; defaults apply.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	config := DefaultConfig()

	exists, err := fileClient.IsFileExists(filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return config, nil
	}

	if err := fileClient.ReadYamlFile(filename, config); err != nil {
		return nil, err
	}
	if config.Ingest.Workers < 1 {
		config.Ingest.Workers = 1
	}
	if config.Report.MinClusterSize < 1 {
		config.Report.MinClusterSize = 1
	}

	return config, nil
}
