package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/export"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// maxUploadBytes caps the size of an uploaded roster CSV.
const maxUploadBytes = 2 << 20

type gradeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type batchRequest struct {
	Entries []types.BatchEntry `json:"entries" validate:"required,min=1,max=100,dive"`
}

// handleGrade grades a single portfolio. A reachable but weak portfolio is a
// 200 with a low score; only fetch failures surface as 5xx.
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if err := validateTargetURL(req.URL); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.grader.Grade(r.Context(), req.URL)
	if err != nil {
		s.jsonResponse(w, http.StatusBadGateway, result)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleBatchGrade grades a JSON list of portfolios and returns the full
// batch result with per-entry rows and aggregate stats.
func (s *Server) handleBatchGrade(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.decodeBatch(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.grader.GradeBatch(r.Context(), entries))
}

// handleBatchUpload grades a roster uploaded as a CSV file. The file comes
// either as a multipart "file" part or as the raw request body.
func (s *Server) handleBatchUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	reader := io.Reader(r.Body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "missing \"file\" form field")
			return
		}
		defer func() { _ = file.Close() }()
		reader = file
	}

	entries, err := export.ParseRoster(reader)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(entries) > 100 {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("batch too large: %d portfolios (max 100)", len(entries)))
		return
	}

	s.jsonResponse(w, http.StatusOK, s.grader.GradeBatch(r.Context(), entries))
}

// handleBatchExportCSV grades a batch and streams the report as a CSV
// attachment.
func (s *Server) handleBatchExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.decodeBatch(w, r)
	if !ok {
		return
	}
	batch := s.grader.GradeBatch(r.Context(), entries)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment("csv"))
	if err := export.WriteCSV(w, batch); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

// handleBatchExportXLSX grades a batch and streams the report as a styled
// Excel workbook.
func (s *Server) handleBatchExportXLSX(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.decodeBatch(w, r)
	if !ok {
		return
	}
	batch := s.grader.GradeBatch(r.Context(), entries)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment("xlsx"))
	if err := export.WriteXLSX(w, batch); err != nil {
		log.Printf("Error writing XLSX export: %v", err)
	}
}

// handleShare resolves a shareable link to its cached grading result.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "sharing is not configured")
		return
	}

	id := r.PathValue("id")
	result, err := s.store.GetShare(r.Context(), id)
	if err != nil {
		log.Printf("Error resolving share %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to resolve share link")
		return
	}
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "share link not found or expired")
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleCacheDelete evicts a single URL from the cache. Admin only.
func (s *Server) handleCacheDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "cache is not configured")
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		s.errorResponse(w, http.StatusBadRequest, "body must carry the url to evict")
		return
	}
	if err := s.store.Delete(r.Context(), req.URL); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete cache entry")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "url": req.URL})
}

// handleCacheClear drops every cached grading. Admin only.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "cache is not configured")
		return
	}

	cleared, err := s.store.Clear(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "cleared", "entries": cleared})
}

// handleStatus reports service health, feature flags, and cache stats.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"ai_enabled":     s.cfg.AIEnabled,
		"faces_enabled":  s.cfg.FacesEnabled,
		"share_enabled":  s.cfg.ShareEnabled,
		"browser":        s.cfg.UseBrowser,
	}
	if s.store != nil {
		if stats, err := s.store.Stats(r.Context()); err == nil {
			status["cache"] = stats
		}
	} else {
		status["cache"] = cache.Stats{}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBatch parses and validates the JSON batch body shared by the batch
// endpoints. It writes the error response itself and reports success.
func (s *Server) decodeBatch(w http.ResponseWriter, r *http.Request) ([]types.BatchEntry, bool) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return nil, false
	}
	return req.Entries, true
}

// validateTargetURL rejects URLs the grader should never fetch: non-HTTP
// schemes and loopback hosts.
func validateTargetURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https")
	}
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("url has no host")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("refusing to grade a local url")
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return fmt.Errorf("refusing to grade a local url")
	}
	return nil
}

// attachment builds the Content-Disposition value for report downloads.
func attachment(ext string) string {
	name := fmt.Sprintf("grading-report-%s.%s", time.Now().Format("2006-01-02"), ext)
	return fmt.Sprintf("attachment; filename=%q", name)
}
