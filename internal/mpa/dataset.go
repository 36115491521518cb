package mpa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Area is one marine protected area containing a queried point.
type Area struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	ID       any    `json:"id,omitempty"`
}

// Dataset is a process-wide protected-area collection fetched from a remote
// GeoJSON source. The collection is loaded at most once per process and is
// immutable afterwards; refreshing it means redeploying. A failed load is
// retried on the next lookup.
type Dataset struct {
	url        string
	httpClient *http.Client

	mu       sync.Mutex
	loaded   bool
	features []*geojson.Feature
}

// NewDataset creates a dataset backed by the given GeoJSON URL. The fetch is
// deferred until the first lookup.
func NewDataset(url string) *Dataset {
	return &Dataset{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (d *Dataset) collection(ctx context.Context) ([]*geojson.Feature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return d.features, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mpa: fetch dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mpa: dataset source returned %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mpa: read dataset: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("mpa: decode dataset: %w", err)
	}

	d.features = fc.Features
	d.loaded = true
	return d.features, nil
}

// Locate returns every protected area whose geometry contains the point.
func (d *Dataset) Locate(ctx context.Context, lon, lat float64) ([]Area, error) {
	features, err := d.collection(ctx)
	if err != nil {
		return nil, err
	}

	pt := orb.Point{lon, lat}
	var hits []Area
	for _, feat := range features {
		if feat == nil || feat.Geometry == nil {
			continue
		}
		if !contains(feat.Geometry, pt) {
			continue
		}
		hits = append(hits, areaFromProperties(feat.Properties))
	}
	return hits, nil
}

func contains(geom orb.Geometry, pt orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	default:
		return false
	}
}

// areaFromProperties tolerates the property aliases found in WDPA exports.
func areaFromProperties(props geojson.Properties) Area {
	area := Area{Name: "Protected Area"}
	for _, key := range []string{"name", "NAME"} {
		if v, ok := props[key].(string); ok && v != "" {
			area.Name = v
			break
		}
	}
	for _, key := range []string{"category", "IUCN_CAT"} {
		if v, ok := props[key].(string); ok && v != "" {
			area.Category = v
			break
		}
	}
	for _, key := range []string{"id", "WDPAID"} {
		if v, ok := props[key]; ok && v != nil {
			area.ID = v
			break
		}
	}
	return area
}
