package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/composer"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/render"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
)

// EventFetcher loads the current earthquake feed.
type EventFetcher interface {
	FetchEvents(ctx context.Context) ([]domain.EventRecord, error)
}

// MapComposer builds a view around a marker layer without blocking on overlays.
type MapComposer interface {
	Compose(ctx context.Context, markers render.MarkerLayer) *composer.MapView
}

// Publisher forwards styled events downstream.
type Publisher interface {
	Publish(ctx context.Context, events []domain.StyledEvent) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Refresher keeps an up-to-date MapView by re-fetching the feed on an interval.
type Refresher struct {
	fetcher   EventFetcher
	renderer  *render.Renderer
	composer  MapComposer
	publisher Publisher // optional
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	current atomic.Pointer[composer.MapView]
}

// New creates a Refresher. publisher may be nil.
func New(f EventFetcher, r *render.Renderer, c MapComposer, p Publisher, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		fetcher:   f,
		renderer:  r,
		composer:  c,
		publisher: p,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Current returns the latest composed view, or nil before the first success.
func (r *Refresher) Current() *composer.MapView {
	return r.current.Load()
}

// CheckReadiness returns nil once a map view has been composed.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if r.current.Load() == nil {
		return errors.New("no map view composed yet")
	}
	return nil
}

// Refresh runs one fetch-render-compose cycle and swaps in the new view.
// The previous view stays in place when the fetch fails.
func (r *Refresher) Refresh(ctx context.Context) (*composer.MapView, error) {
	start := r.clock.Now()

	records, err := r.fetcher.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	markers := r.renderer.Render(records)
	view := r.composer.Compose(ctx, markers)
	r.current.Store(view)

	r.metrics.EventsRendered.Set(float64(markers.Len()))
	r.metrics.MapReady.Set(1)
	r.metrics.RefreshDuration.Observe(r.clock.Since(start).Seconds())
	r.logger.Info("map view refreshed", "events", markers.Len())

	r.publish(ctx, records)
	return view, nil
}

func (r *Refresher) publish(ctx context.Context, records []domain.EventRecord) {
	if r.publisher == nil || len(records) == 0 {
		return
	}
	styled := make([]domain.StyledEvent, len(records))
	for i := range records {
		styled[i] = domain.StyleEvent(records[i])
	}
	if err := r.publisher.Publish(ctx, styled); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Warn("publish styled events failed", "error", err, "count", len(styled))
		return
	}
	r.metrics.MessagesPublished.Add(float64(len(styled)))
}

// Run refreshes immediately and then every interval until the context is
// cancelled. Failed refreshes are retried with exponential backoff.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	defer r.metrics.MapReady.Set(0)

	backoff := initialBackoff
	for {
		wait := r.interval
		if _, err := r.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("refresher stopping", "reason", ctx.Err())
				return nil
			}
			r.logger.Error("refresh failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = retry.NextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !r.sleepWithContext(ctx, wait) {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// sleepWithContext mirrors retry.SleepWithContext on the refresher's clock.
func (r *Refresher) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := r.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
