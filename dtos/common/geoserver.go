package common

import "errors"

// GeoserverCatalog describes a GeoServer instance whose REST catalog is
// queried for named layer counts.
type GeoserverCatalog struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Validate checks that the catalog descriptor is usable.
func (g *GeoserverCatalog) Validate() error {
	if g.URL == "" {
		return errors.New("url is required")
	}
	return nil
}
