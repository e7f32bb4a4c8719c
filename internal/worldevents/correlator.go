// Package worldevents pairs timeline dates with real-world historical events.
//
// A Correlator walks an ordered chain of feeds and returns the first usable
// answer. Every feed call is rate limited, bounded by its own timeout, and
// allowed to fail without affecting the others.
package worldevents

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"golang.org/x/time/rate"
)

// Correlator implements codex.WorldEventCorrelator over a fallback chain of feeds.
type Correlator struct {
	feeds    []Feed
	timeout  time.Duration
	attempts int
	limiter  *rate.Limiter
}

var _ codex.WorldEventCorrelator = (*Correlator)(nil)

// CorrelatorOption configures a Correlator.
type CorrelatorOption func(*Correlator)

// WithTimeout sets the deadline of a single feed call.
func WithTimeout(d time.Duration) CorrelatorOption {
	return func(c *Correlator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outbound feed calls per second across all goroutines.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64) CorrelatorOption {
	return func(c *Correlator) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithAttempts sets how many times each feed is tried before moving on.
func WithAttempts(n int) CorrelatorOption {
	return func(c *Correlator) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// NewCorrelator creates a correlator that queries feeds in order.
func NewCorrelator(feeds []Feed, opts ...CorrelatorOption) *Correlator {
	c := &Correlator{
		feeds:    feeds,
		timeout:  config.DefaultWorldTimeout,
		attempts: 1,
		limiter:  rate.NewLimiter(rate.Limit(config.DefaultWorldRate), int(config.DefaultWorldRate)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefaultCorrelator wires the three standard feeds from settings.
// The news archive is skipped at lookup time when apiKey is empty.
func NewDefaultCorrelator(s config.WorldEventSettings, apiKey string, fetcher Fetcher) *Correlator {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	feeds := []Feed{
		WikipediaFeed{BaseURL: s.WikipediaURL, Fetcher: fetcher},
		HistoryFeed{BaseURL: s.HistoryURL, Fetcher: fetcher},
		NewsArchiveFeed{BaseURL: s.NewsArchiveURL, APIKey: apiKey, Fetcher: fetcher},
	}
	return NewCorrelator(feeds,
		WithTimeout(s.Timeout),
		WithRateLimit(s.RequestsPerSecond),
	)
}

// Correlate returns the first world event any feed yields for date.
// It never returns an error: a miss is reported as false.
func (c *Correlator) Correlate(ctx context.Context, date time.Time) (codex.WorldEvent, bool) {
	day := date.Format(config.DateFormatFullDash)

	for _, f := range c.feeds {
		ev, err := c.lookup(ctx, f, date)
		if err == nil {
			slog.Debug(config.MsgWorldEventFound,
				config.LogKeyComponent, config.CompWorld,
				config.LogKeyFeed, f.Name(),
				config.LogKeyDate, day)
			return ev, true
		}
		if ctx.Err() != nil {
			return codex.WorldEvent{}, false
		}
		msg := config.MsgFeedFailed
		if errors.Is(err, errKeyMissing) {
			msg = config.MsgFeedSkipped
		}
		slog.Debug(msg,
			config.LogKeyComponent, config.CompWorld,
			config.LogKeyFeed, f.Name(),
			config.LogKeyDate, day,
			config.LogKeyError, err)
	}

	slog.Info(config.MsgWorldEventMiss,
		config.LogKeyComponent, config.CompWorld,
		config.LogKeyDate, day)
	return codex.WorldEvent{}, false
}

// lookup runs one feed with its own deadline, retrying up to c.attempts times.
// Missing keys and empty answers are not retried.
func (c *Correlator) lookup(ctx context.Context, f Feed, date time.Time) (codex.WorldEvent, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return codex.WorldEvent{}, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		ev, err := f.Lookup(callCtx, date)
		cancel()

		if err == nil && strings.TrimSpace(ev.Text) == "" {
			err = errEmpty
		}
		if err == nil {
			return ev, nil
		}
		lastErr = err
		if errors.Is(err, errKeyMissing) || errors.Is(err, errEmpty) || ctx.Err() != nil {
			break
		}
	}
	return codex.WorldEvent{}, lastErr
}
