// internal/server/server.go

// Package server exposes product extraction over an HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/valpere/ShopScrapexter/internal/config"
	"github.com/valpere/ShopScrapexter/internal/extract"
	"github.com/valpere/ShopScrapexter/internal/monitoring"
	"github.com/valpere/ShopScrapexter/internal/platform"
)

// Fetcher retrieves pages for extract-by-URL requests.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// Server handles extraction requests over HTTP.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	metrics    *monitoring.MetricsManager
	fetcher    Fetcher
	logger     logrus.FieldLogger
	startedAt  time.Time

	mu          sync.RWMutex
	reviewLimit int
	forced      platform.Platform
	overrides   map[platform.Platform]extract.Ruleset
}

// New creates a server from the given configuration.
func New(cfg *config.Config, metrics *monitoring.MetricsManager, fetcher Fetcher, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if metrics == nil {
		metrics = monitoring.NewMetricsManager(monitoring.MetricsConfig{})
	}

	s := &Server{
		metrics:   metrics,
		fetcher:   fetcher,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.applyConfig(cfg)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.Handle(cfg.Server.MetricsPath, metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/extract", s.handleExtract).Methods("POST")
	api.HandleFunc("/platforms", s.handlePlatforms).Methods("GET")

	router.Use(s.loggingMiddleware)
	s.router = router

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// UpdateConfig swaps in the extraction settings from a reloaded
// configuration. Server address and timeouts keep their boot values.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.applyConfig(cfg)
	s.logger.Info("extraction settings updated")
}

func (s *Server) applyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewLimit = cfg.ReviewLimit
	s.forced = cfg.ForcedPlatform()
	s.overrides = cfg.RulesetOverrides()
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.httpServer.Addr).Info("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// ExtractRequest is the extract endpoint payload. Either HTML or URL must
// be set; when both are present the HTML is used and URL only identifies
// the page.
type ExtractRequest struct {
	URL         string `json:"url"`
	HTML        string `json:"html,omitempty"`
	Platform    string `json:"platform,omitempty"`
	ReviewLimit int    `json:"review_limit,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.HTML == "" && req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "either html or url is required")
		return
	}
	if req.Platform != "" && !platform.Platform(req.Platform).IsKnown() {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown platform: %s", req.Platform))
		return
	}

	doc, err := s.resolveDocument(r.Context(), &req)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch page: %v", err))
		return
	}

	s.mu.RLock()
	reviewLimit := s.reviewLimit
	forced := s.forced
	overrides := s.overrides
	s.mu.RUnlock()

	if req.ReviewLimit > 0 {
		reviewLimit = req.ReviewLimit
	}
	if req.Platform != "" {
		forced = platform.Platform(req.Platform)
	}

	extractor := extract.New(doc, req.URL, &extract.Config{
		Platform:         forced,
		ReviewLimit:      reviewLimit,
		RulesetOverrides: overrides,
		Logger:           s.logger,
	})

	start := time.Now()
	record := extractor.Extract(r.Context())
	s.metrics.RecordExtraction(string(record.Platform), time.Since(start), r.Context().Err())
	s.recordEmptyFields(record)

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) resolveDocument(ctx context.Context, req *ExtractRequest) (*goquery.Document, error) {
	if req.HTML != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %w", err)
		}
		return doc, nil
	}

	if s.fetcher == nil {
		return nil, fmt.Errorf("fetching by url is not enabled")
	}
	return s.fetcher.FetchDocument(ctx, req.URL)
}

func (s *Server) recordEmptyFields(record *extract.ProductRecord) {
	if record.Title == "" {
		s.metrics.RecordEmptyField("title")
	}
	if record.Price == 0 {
		s.metrics.RecordEmptyField("price")
	}
	if len(record.Images) == 0 {
		s.metrics.RecordEmptyField("images")
	}
	if len(record.Variants) == 0 {
		s.metrics.RecordEmptyField("variants")
	}
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"platforms": platform.Known(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.UpdateSystemMetrics()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(s.startedAt).String(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}
