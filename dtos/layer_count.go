package dtos

import "fmt"

// TableRef identifies a table within one database.
type TableRef struct {
	Schema string
	Name   string
}

// LayerCount is one counted geometry table.
type LayerCount struct {
	Host     string `json:"host"`
	Database string `json:"database"`
	Schema   string `json:"schema"`
	Table    string `json:"table"`
	Rows     int64  `json:"rows"`
}

// QualifiedName returns the database-qualified table name used in report
// lines.
func (l LayerCount) QualifiedName() string {
	return fmt.Sprintf("%s.%s.%s", l.Database, l.Schema, l.Table)
}

// CoverageCount is the number of raster TIFF files found directly inside one
// coverage directory.
type CoverageCount struct {
	Dir   string
	Tiffs int
}
