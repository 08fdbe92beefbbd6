package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geolayers/dtos/common"

	"github.com/google/go-cmp/cmp"
)

const fullDocument = `---
postgis:
  - host: postgis.host.edu
    port: 5433
    user: postgis_user
    password: secret
  - host: postgis2.host.edu
    user: post_user_2
    password: hushhush
rasters:
  host: geo.server.com
  user: username
  password: secret
  geoserver-data-dir: /var/geodata/geoserver/data
geoserver:
  url: http://geo.server.com:8080/geoserver
  user: admin
  password: secret
`

func TestParseFullDocument(t *testing.T) {
	cfg, err := Parse([]byte(fullDocument))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantPostgis := []common.ConnectionDetails{
		{Host: "postgis.host.edu", Port: 5433, User: "postgis_user", Password: "secret"},
		{Host: "postgis2.host.edu", Port: 5432, User: "post_user_2", Password: "hushhush"},
	}
	if diff := cmp.Diff(wantPostgis, cfg.Postgis); diff != "" {
		t.Errorf("postgis descriptors mismatch (-want +got):\n%s", diff)
	}

	wantRasters := &common.RasterStore{
		Host:             "geo.server.com",
		Port:             22,
		User:             "username",
		Password:         "secret",
		GeoserverDataDir: "/var/geodata/geoserver/data",
	}
	if diff := cmp.Diff(wantRasters, cfg.Rasters); diff != "" {
		t.Errorf("rasters section mismatch (-want +got):\n%s", diff)
	}

	if cfg.Geoserver == nil || cfg.Geoserver.URL != "http://geo.server.com:8080/geoserver" {
		t.Errorf("geoserver section not parsed: %+v", cfg.Geoserver)
	}
}

func TestParsePostgisOnly(t *testing.T) {
	doc := `
postgis:
  - host: db.example.edu
    user: reporter
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Rasters != nil || cfg.Geoserver != nil {
		t.Error("absent sections should stay nil")
	}
	if cfg.Postgis[0].Port != 5432 {
		t.Errorf("default port = %d, want 5432", cfg.Postgis[0].Port)
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	doc := `
postgis:
  - host: db.example.edu
    user: reporter
dashboards:
  url: http://unused.example.edu
`
	if _, err := Parse([]byte(doc)); err != nil {
		t.Fatalf("Parse should ignore unknown sibling keys: %v", err)
	}
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte("postgis: [unclosed"))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should name the parse problem, got %q", err)
	}
}

func TestParseMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"missing host",
			"postgis:\n  - user: reporter\n",
			"host is required",
		},
		{
			"missing user",
			"postgis:\n  - host: db.example.edu\n",
			"user is required",
		},
		{
			"no connections",
			"rasters:\n  host: geo.server.com\n  user: u\n  geoserver-data-dir: /data\n",
			"no postgis connections",
		},
		{
			"rasters without data dir",
			"postgis:\n  - host: db.example.edu\n    user: reporter\nrasters:\n  host: geo.server.com\n  user: u\n",
			"geoserver-data-dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	if err := os.WriteFile(path, []byte(fullDocument), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Postgis) != 2 {
		t.Errorf("loaded %d postgis entries, want 2", len(cfg.Postgis))
	}
}
