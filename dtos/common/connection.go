package common

import "errors"

// ConnectionDetails identifies one PostGIS server from the configuration
// document. Port is optional and defaults to the standard PostgreSQL port.
type ConnectionDetails struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Validate checks that the descriptor carries enough information to open a
// connection.
func (c *ConnectionDetails) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.User == "" {
		return errors.New("user is required")
	}
	return nil
}

// SetDefaults sets default values for optional fields.
func (c *ConnectionDetails) SetDefaults() {
	if c.Port <= 0 {
		c.Port = 5432
	}
}
