package config

import (
	"fmt"
	"os"

	"geolayers/dtos/common"
	"geolayers/logger"

	"gopkg.in/yaml.v3"
)

var (
	// PostgisServers is the ordered list of PostGIS connection descriptors.
	PostgisServers []common.ConnectionDetails
	// RasterStore is nil when the rasters section is absent.
	RasterStore *common.RasterStore
	// Geoserver is nil when the geoserver section is absent.
	Geoserver *common.GeoserverCatalog
)

// Config mirrors the YAML configuration document. Unknown sibling keys are
// ignored by the decoder.
type Config struct {
	Postgis   []common.ConnectionDetails `yaml:"postgis"`
	Rasters   *common.RasterStore        `yaml:"rasters"`
	Geoserver *common.GeoserverCatalog   `yaml:"geoserver"`
}

// Parse decodes a configuration document and validates it into typed
// connection descriptors, applying defaults for optional fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Postgis) == 0 {
		return nil, fmt.Errorf("no postgis connections configured")
	}

	for i := range cfg.Postgis {
		cfg.Postgis[i].SetDefaults()
		if err := cfg.Postgis[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid postgis entry %d (host %q): %w", i, cfg.Postgis[i].Host, err)
		}
	}

	if cfg.Rasters != nil {
		cfg.Rasters.SetDefaults()
		if err := cfg.Rasters.Validate(); err != nil {
			return nil, fmt.Errorf("invalid rasters section: %w", err)
		}
	}

	if cfg.Geoserver != nil {
		if err := cfg.Geoserver.Validate(); err != nil {
			return nil, fmt.Errorf("invalid geoserver section: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads and parses the configuration document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// InitializeConfig loads the configuration document and sets the package
// globals. Any failure here is fatal: it happens before any connection is
// attempted.
func InitializeConfig(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		logger.Sugar.Fatalf("Failed to load config file %s: %v", configPath, err)
	}

	PostgisServers = cfg.Postgis
	RasterStore = cfg.Rasters
	Geoserver = cfg.Geoserver

	logger.Sugar.Info("Configuration loaded successfully")
}
