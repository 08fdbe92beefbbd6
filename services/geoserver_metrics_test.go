package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geolayers/dtos/common"
	"geolayers/utils"
)

func TestGeoserverGetCounts(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if ok && user == "admin" && pass == "secret" {
			sawAuth = true
		}
		switch r.URL.Path {
		case "/rest/layers.json":
			w.Write([]byte(`{"layers":{"layer":[{"name":"roads"},{"name":"ESRI_topo"},{"name":"lakes"}]}}`))
		case "/rest/layergroups.json":
			w.Write([]byte(`{"layerGroups":{"layerGroup":[{"name":"basemap"},{"name":"ESRI_base"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	filters, err := utils.CompileFilters([]string{"^ESRI"})
	if err != nil {
		t.Fatalf("CompileFilters: %v", err)
	}

	m := &geoserverMetrics{
		catalog: &common.GeoserverCatalog{URL: server.URL, User: "admin", Password: "secret"},
		filters: filters,
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	count, err := m.GetCounts(context.Background())
	if err != nil {
		t.Fatalf("GetCounts: %v", err)
	}
	// roads + lakes + basemap survive the filter
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if !sawAuth {
		t.Error("catalog requests should carry basic auth")
	}
}

func TestGeoserverGetCountsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	m := &geoserverMetrics{
		catalog: &common.GeoserverCatalog{URL: server.URL},
		filters: nil,
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	if _, err := m.GetCounts(context.Background()); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestGeoserverGetCountsBadDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	m := &geoserverMetrics{
		catalog: &common.GeoserverCatalog{URL: server.URL},
		filters: nil,
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	if _, err := m.GetCounts(context.Background()); err == nil {
		t.Fatal("expected an error for an undecodable response")
	}
}
