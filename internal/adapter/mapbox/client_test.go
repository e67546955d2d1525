package mapbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchTile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mapbox.streets/5/7/12.png", r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	tile, err := c.FetchTile(context.Background(), TileKey{Style: StyleStreets, Z: 5, X: 7, Y: 12})
	require.NoError(t, err)

	assert.Equal(t, []byte("png-bytes"), tile.Data)
	assert.Equal(t, "image/png", tile.ContentType)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.TileRequests.WithLabelValues("success")))
}

func TestClient_FetchTile_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchTile(context.Background(), TileKey{Style: StyleLight, Z: 0, X: 0, Y: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.TileRequests.WithLabelValues("error")))
}

func TestClient_FetchTile_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchTile(context.Background(), TileKey{Style: StyleStreets, Z: 1, X: 1, Y: 0})
	require.Error(t, err)
}

func TestClient_FetchTile_RejectsInvalidKeyWithoutCallingUpstream(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchTile(context.Background(), TileKey{Style: "mapbox.dark", Z: 1, X: 0, Y: 0})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTile))
	assert.False(t, called)
}

func TestTileKey_Validate(t *testing.T) {
	tests := []struct {
		name  string
		key   TileKey
		valid bool
	}{
		{"world tile", TileKey{Style: StyleStreets, Z: 0, X: 0, Y: 0}, true},
		{"satellite", TileKey{Style: StyleSatelliteStreets, Z: 18, X: 262143, Y: 1}, true},
		{"unknown style", TileKey{Style: "mapbox.outdoors", Z: 3, X: 0, Y: 0}, false},
		{"zoom too deep", TileKey{Style: StyleLight, Z: 19, X: 0, Y: 0}, false},
		{"negative zoom", TileKey{Style: StyleLight, Z: -1, X: 0, Y: 0}, false},
		{"x outside grid", TileKey{Style: StyleLight, Z: 2, X: 4, Y: 0}, false},
		{"negative y", TileKey{Style: StyleLight, Z: 2, X: 0, Y: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTile)
			}
		})
	}
}
