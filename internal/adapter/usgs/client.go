package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Client fetches the USGS GeoJSON summary feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client for the given summary feed URL.
func NewClient(feedURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEvents downloads the feed and decodes every feature into an EventRecord.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.EventRecord, error) {
	records, err := c.fetch(ctx)
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.FeedFetches.WithLabelValues("success").Inc()
	c.logger.Debug("feed fetched", "url", c.feedURL, "events", len(records))
	return records, nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.EventRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("usgs feed error: status %d: %s", resp.StatusCode, body)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return fc.records(), nil
}

// DecodeFeed parses a feed document already in memory.
func DecodeFeed(data []byte) ([]domain.EventRecord, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return fc.records(), nil
}

// USGS feed types. Only the fields the map uses are decoded.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Place string  `json:"place"`
	Time  int64   `json:"time"`
	Mag   float64 `json:"mag"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

func (fc featureCollection) records() []domain.EventRecord {
	out := make([]domain.EventRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		rec := domain.EventRecord{
			ID:        f.ID,
			Place:     f.Properties.Place,
			Time:      f.Properties.Time,
			Magnitude: f.Properties.Mag,
		}
		// Feed order is lon, lat; markers are placed lat-first.
		if c := f.Geometry.Coordinates; len(c) >= 2 {
			rec.Coordinates = domain.LatLng{c[1], c[0]}
			if len(c) >= 3 {
				rec.Depth = c[2]
			}
		}
		out = append(out, rec)
	}
	return out
}
