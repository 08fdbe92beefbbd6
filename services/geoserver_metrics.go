package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"geolayers/dtos/common"
	"geolayers/logger"
	"geolayers/utils"

	"github.com/samber/lo"
)

// GeoserverMetrics is nil unless the geoserver section is configured.
var GeoserverMetrics *geoserverMetrics

type geoserverMetrics struct {
	catalog *common.GeoserverCatalog
	filters *utils.FilterSet
	client  *http.Client
}

// NewGeoserverMetrics initializes the named-layer counter for the
// configured GeoServer catalog.
func NewGeoserverMetrics(catalog *common.GeoserverCatalog, filters *utils.FilterSet) {
	GeoserverMetrics = &geoserverMetrics{
		catalog: catalog,
		filters: filters,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type namedItem struct {
	Name string `json:"name"`
}

// GetCounts returns the number of named layers plus layer groups in the
// catalog, excluding names matching a filter pattern.
func (g *geoserverMetrics) GetCounts(ctx context.Context) (int, error) {
	var layersDoc struct {
		Layers struct {
			Layer []namedItem `json:"layer"`
		} `json:"layers"`
	}
	if err := g.getJSON(ctx, "/rest/layers.json", &layersDoc); err != nil {
		return 0, err
	}

	var groupsDoc struct {
		LayerGroups struct {
			LayerGroup []namedItem `json:"layerGroup"`
		} `json:"layerGroups"`
	}
	if err := g.getJSON(ctx, "/rest/layergroups.json", &groupsDoc); err != nil {
		return 0, err
	}

	count := g.countSurviving(layersDoc.Layers.Layer) + g.countSurviving(groupsDoc.LayerGroups.LayerGroup)
	return count, nil
}

func (g *geoserverMetrics) countSurviving(items []namedItem) int {
	return lo.CountBy(items, func(item namedItem) bool {
		return !g.filters.Matches(item.Name)
	})
}

func (g *geoserverMetrics) getJSON(ctx context.Context, endpoint string, out any) error {
	url := g.catalog.URL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.catalog.User, g.catalog.Password)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	// Check response status
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request %s failed with status %s response %s", url, resp.Status, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	logger.Sugar.Debugf("Fetched %s", url)
	return nil
}
