// Package server publishes the latest rendered timeline over HTTP: the
// iCalendar feed on "/" and the JSON document on "/timeline.json".
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// document is one rendered representation and its HTTP cache metadata.
type document struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// snapshot pairs the two representations of the same timeline so that
// readers never observe an ICS and a JSON from different generations.
type snapshot struct {
	ics  document
	json document
}

// TimelineServer serves the most recent timeline.
type TimelineServer struct {
	// Written on refresh only, read on every request.
	current atomic.Pointer[snapshot]
	Port    string
}

// NewTimelineServer creates a server bound to localhost:port once started.
func NewTimelineServer(port string) *TimelineServer {
	return &TimelineServer{Port: port}
}

// Handler returns the routes of the server.
func (s *TimelineServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteTimelineJSON, s.serve(config.MimeJSON, func(sn *snapshot) document { return sn.json }))
	mux.HandleFunc(config.RouteRoot, s.serve(config.MimeTextCalendar, func(sn *snapshot) document { return sn.ics }))
	return mux
}

// Start listens on localhost and blocks until ctx is cancelled.
func (s *TimelineServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Ready reports whether a timeline has been published.
func (s *TimelineServer) Ready() bool {
	return s.current.Load() != nil
}

// Update atomically replaces both served documents.
func (s *TimelineServer) Update(ics, timelineJSON []byte) {
	lastMod := time.Now().UTC().Format(http.TimeFormat)
	sn := &snapshot{
		ics:  newDocument(ics, lastMod),
		json: newDocument(timelineJSON, lastMod),
	}
	s.current.Store(sn)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(ics)+len(timelineJSON),
		config.LogKeyETag, sn.ics.etag,
	)
}

func newDocument(data []byte, lastMod string) document {
	hash := sha256.Sum256(data)
	return document{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: lastMod,
	}
}

// serve builds a handler for one representation with HTTP caching support.
func (s *TimelineServer) serve(mime string, pick func(*snapshot) document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		sn := s.current.Load()
		if sn == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}
		doc := pick(sn)

		w.Header().Set(config.HeaderContentType, mime)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, doc.etag)
		w.Header().Set(config.HeaderLastModified, doc.lastModified)

		if notModified(r, doc) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified evaluates If-None-Match, then If-Modified-Since.
func notModified(r *http.Request, doc document) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == doc.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, doc.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
