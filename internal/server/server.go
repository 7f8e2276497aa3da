// Package server provides the HTTP REST API for the portfolio grader.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/config"
	"github.com/jonathan/portfolio-grader/internal/metrics"
	"github.com/jonathan/portfolio-grader/internal/server/middleware"
	"github.com/jonathan/portfolio-grader/internal/server/ratelimit"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// Grader runs gradings. It is implemented by analysis.Coordinator.
type Grader interface {
	Grade(ctx context.Context, url string) (*types.GradingResult, error)
	GradeBatch(ctx context.Context, entries []types.BatchEntry) *types.BatchResult
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	cfg         config.Config
	grader      Grader
	store       cache.Store
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	rateLimiter *ratelimit.Limiter
	tokens      *TokenService
	validate    *validator.Validate
	startedAt   time.Time
}

// New creates a server around an assembled grader. store may be nil when no
// cache backend is configured; the cache endpoints then report 503. gatherer
// may be nil to fall back to the default Prometheus registry.
func New(cfg config.Config, grader Grader, store cache.Store, m *metrics.Metrics, gatherer prometheus.Gatherer) (*Server, error) {
	if grader == nil {
		return nil, fmt.Errorf("grader is required")
	}
	if m == nil {
		m = metrics.NewForTest()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		cfg:       cfg,
		grader:    grader,
		store:     store,
		metrics:   m,
		gatherer:  gatherer,
		validate:  validator.New(),
		startedAt: time.Now(),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitPerMinute))

	if cfg.AdminSecret != "" {
		tokens, err := NewTokenService(cfg.AdminSecret, DefaultTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		s.tokens = tokens
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // batch gradings are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /grade", s.handleGrade)
	mux.HandleFunc("POST /batch-grade", s.handleBatchGrade)
	mux.HandleFunc("POST /batch-upload-csv", s.handleBatchUpload)
	mux.HandleFunc("POST /batch-export-csv", s.handleBatchExportCSV)
	mux.HandleFunc("POST /batch-export-xlsx", s.handleBatchExportXLSX)
	mux.HandleFunc("GET /share/{id}", s.handleShare)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	requireAdmin := middleware.RequireAdmin(s.adminValidator())
	mux.Handle("DELETE /cache", requireAdmin(http.HandlerFunc(s.handleCacheDelete)))
	mux.Handle("DELETE /cache/all", requireAdmin(http.HandlerFunc(s.handleCacheClear)))

	return s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(mux))))
}

// adminValidator returns the token validator, or nil when no admin secret is
// configured so that admin routes reject everything.
func (s *Server) adminValidator() middleware.TokenValidator {
	if s.tokens == nil {
		return nil
	}
	return s.tokens
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.store != nil {
		s.store.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := "*"
	if len(s.cfg.AllowOrigins) > 0 {
		origin = strings.Join(s.cfg.AllowOrigins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics records Prometheus counters and latencies per route.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeLabel(r.URL.Path)
		s.metrics.HTTPRequests.WithLabelValues(route, fmt.Sprintf("%d", rec.status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// routeLabel collapses parameterized paths so share ids do not explode the
// label cardinality.
func routeLabel(path string) string {
	if strings.HasPrefix(path, "/share/") {
		return "/share/{id}"
	}
	return path
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request. This uses
// the IP from RemoteAddr; a trusted-proxy X-Forwarded-For mode can come later.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
