package usgs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
  "type": "FeatureCollection",
  "metadata": {"generated": 1700000300000, "title": "USGS All Earthquakes, Past Week", "count": 3},
  "features": [
    {"type": "Feature", "id": "nc73950000",
     "properties": {"mag": 5.2, "place": "10km N of Town", "time": 1700000000000, "type": "earthquake"},
     "geometry": {"type": "Point", "coordinates": [-120, 38, 7.5]}},
    {"type": "Feature", "id": "hv73600000",
     "properties": {"mag": 2.0, "place": "3 km SW of Volcano, Hawaii", "time": 1700000060000},
     "geometry": {"type": "Point", "coordinates": [-155.28, 19.4]}},
    {"type": "Feature", "id": "ak023e5xyz",
     "properties": {"mag": null, "place": "Southern Alaska", "time": 1700000120000},
     "geometry": {"type": "Point", "coordinates": [-151.1, 61.2, 80.3]}}
  ]
}`

func testClient(url string, timeout time.Duration) *Client {
	return NewClient(url, timeout, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDecodeFeed(t *testing.T) {
	records, err := DecodeFeed([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, domain.EventRecord{
		ID:          "nc73950000",
		Place:       "10km N of Town",
		Time:        1700000000000,
		Magnitude:   5.2,
		Coordinates: domain.LatLng{38, -120},
		Depth:       7.5,
	}, records[0])

	assert.Equal(t, domain.LatLng{19.4, -155.28}, records[1].Coordinates)
	assert.Zero(t, records[1].Depth)

	// Missing magnitude is not validated; it decodes as zero.
	assert.Zero(t, records[2].Magnitude)
}

func TestDecodeFeed_Empty(t *testing.T) {
	records, err := DecodeFeed([]byte(`{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestDecodeFeed_Malformed(t *testing.T) {
	_, err := DecodeFeed([]byte(`{"features": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestClient_FetchEvents_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summary/all_week.geojson", r.URL.Path)
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := testClient(srv.URL+"/summary/all_week.geojson", 5*time.Second)
	records, err := c.FetchEvents(context.Background())
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues("success")))
}

func TestClient_FetchEvents_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchEvents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues("error")))
}

func TestClient_FetchEvents_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchEvents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestClient_FetchEvents_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchEvents(context.Background())
	require.Error(t, err)
}
