package common

import "errors"

// RasterStore describes the GeoServer data host holding raster coverages,
// reached over SSH.
type RasterStore struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	GeoserverDataDir string `yaml:"geoserver-data-dir"`
}

// Validate checks that the raster store descriptor is usable.
func (r *RasterStore) Validate() error {
	if r.Host == "" {
		return errors.New("host is required")
	}
	if r.User == "" {
		return errors.New("user is required")
	}
	if r.GeoserverDataDir == "" {
		return errors.New("geoserver-data-dir is required")
	}
	return nil
}

// SetDefaults sets default values for optional fields.
func (r *RasterStore) SetDefaults() {
	if r.Port <= 0 {
		r.Port = 22
	}
}
