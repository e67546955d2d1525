package mapbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Raster tilesets offered as base layers.
const (
	StyleStreets          = "mapbox.streets"
	StyleLight            = "mapbox.light"
	StyleSatelliteStreets = "mapbox.streets-satellite"
)

const (
	// TileURLTemplate is the Leaflet URL template for direct Mapbox access.
	TileURLTemplate = "https://api.tiles.mapbox.com/v4/{id}/{z}/{x}/{y}.png?access_token={accessToken}"
	// ProxyURLTemplate routes tiles through this service so the token stays server-side.
	ProxyURLTemplate = "/tiles/{id}/{z}/{x}/{y}.png"

	Attribution = `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
		`<a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, ` +
		`Imagery © <a href="https://www.mapbox.com/">Mapbox</a>`

	MaxZoom = 18
)

// ErrInvalidTile is returned for tile coordinates or styles the proxy will not fetch.
var ErrInvalidTile = errors.New("invalid tile request")

// TileKey addresses one raster tile.
type TileKey struct {
	Style string
	Z     int
	X     int
	Y     int
}

// Validate checks the style against the known tilesets and the coordinates
// against the zoom level's grid.
func (k TileKey) Validate() error {
	if !IsKnownStyle(k.Style) {
		return fmt.Errorf("%w: unknown style %q", ErrInvalidTile, k.Style)
	}
	if k.Z < 0 || k.Z > MaxZoom {
		return fmt.Errorf("%w: zoom %d out of range", ErrInvalidTile, k.Z)
	}
	n := 1 << k.Z
	if k.X < 0 || k.X >= n || k.Y < 0 || k.Y >= n {
		return fmt.Errorf("%w: tile %d/%d out of range at zoom %d", ErrInvalidTile, k.X, k.Y, k.Z)
	}
	return nil
}

// IsKnownStyle reports whether style is one of the base-layer tilesets.
func IsKnownStyle(style string) bool {
	switch style {
	case StyleStreets, StyleLight, StyleSatelliteStreets:
		return true
	default:
		return false
	}
}

// Tile is a fetched raster image.
type Tile struct {
	Data        []byte
	ContentType string
}

// TileFetcher retrieves raster tiles.
type TileFetcher interface {
	FetchTile(ctx context.Context, key TileKey) (Tile, error)
}

// Client implements TileFetcher against the Mapbox v4 raster API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox tile client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.tiles.mapbox.com/v4",
		metrics: metrics,
		logger:  logger,
	}
}

// FetchTile downloads one tile.
func (c *Client) FetchTile(ctx context.Context, key TileKey) (Tile, error) {
	if err := key.Validate(); err != nil {
		return Tile{}, err
	}

	u := fmt.Sprintf("%s/%s/%d/%d/%d.png", c.baseURL, url.PathEscape(key.Style), key.Z, key.X, key.Y)
	params := url.Values{"access_token": {c.token}}

	start := time.Now()
	tile, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.TileAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.TileRequests.WithLabelValues("error").Inc()
		c.logger.Warn("tile fetch failed",
			"style", key.Style, "z", key.Z, "x", key.X, "y", key.Y, "error", err)
		return Tile{}, err
	}
	c.metrics.TileRequests.WithLabelValues("success").Inc()
	return tile, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (Tile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return Tile{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Tile{}, fmt.Errorf("tile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Tile{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Tile{}, fmt.Errorf("read tile: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return Tile{Data: data, ContentType: contentType}, nil
}
