package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/config"
	"github.com/jonathan/portfolio-grader/internal/metrics"
	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

type stubGrader struct {
	score    int
	fetchErr error
}

func (g *stubGrader) Grade(_ context.Context, url string) (*types.GradingResult, error) {
	if g.fetchErr != nil {
		return &types.GradingResult{
			URL:      url,
			Success:  false,
			Error:    g.fetchErr.Error(),
			GradedAt: time.Now().UTC(),
		}, g.fetchErr
	}
	return &types.GradingResult{
		URL:       url,
		Success:   true,
		Score:     g.score,
		Checklist: rubric.NewChecklist(),
		GradedAt:  time.Now().UTC(),
	}, nil
}

func (g *stubGrader) GradeBatch(ctx context.Context, entries []types.BatchEntry) *types.BatchResult {
	results := make([]types.GradingResult, len(entries))
	for i, entry := range entries {
		result, _ := g.Grade(ctx, entry.URL)
		result.EntryID = entry.ID
		result.Name = entry.Name
		results[i] = *result
	}
	return &types.BatchResult{Results: results, Stats: types.ComputeStats(results)}
}

func testServer(t *testing.T, grader Grader, store cache.Store) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.AdminSecret = "test-secret"
	cfg.RateLimitPerMinute = 0 // keep limiting out of handler tests

	reg := prometheus.NewRegistry()
	s, err := New(cfg, grader, store, metrics.New(reg), reg)
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleGrade(t *testing.T) {
	s := testServer(t, &stubGrader{score: 73}, nil)
	handler := s.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/grade", gradeRequest{URL: "https://janedoe.dev"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.GradingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 73, result.Score)
	assert.Equal(t, "https://janedoe.dev", result.URL)
}

func TestHandleGradeRejectsBadRequests(t *testing.T) {
	s := testServer(t, &stubGrader{}, nil)
	handler := s.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing url", `{}`},
		{"not a url", `{"url":"not a url"}`},
		{"ftp scheme", `{"url":"ftp://example.com"}`},
		{"localhost", `{"url":"http://localhost:3000"}`},
		{"loopback ip", `{"url":"http://127.0.0.1:3000"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/grade", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleGradeFetchFailure(t *testing.T) {
	s := testServer(t, &stubGrader{fetchErr: fmt.Errorf("HTTP status 503")}, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/grade", gradeRequest{URL: "https://down.example.com"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var result types.GradingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "503")
}

func TestHandleBatchGrade(t *testing.T) {
	s := testServer(t, &stubGrader{score: 50}, nil)

	body := batchRequest{Entries: []types.BatchEntry{
		{ID: "1", Name: "Jane", URL: "https://one.example.com"},
		{ID: "2", Name: "Alex", URL: "https://two.example.com"},
	}}
	rec := doJSON(t, s.Handler(), http.MethodPost, "/batch-grade", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var batch types.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Len(t, batch.Results, 2)
	assert.Equal(t, 2, batch.Stats.Succeeded)
	assert.Equal(t, "1", batch.Results[0].EntryID)
}

func TestHandleBatchGradeValidation(t *testing.T) {
	s := testServer(t, &stubGrader{}, nil)
	handler := s.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/batch-grade", batchRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty batch")

	oversized := batchRequest{}
	for i := 0; i < 101; i++ {
		oversized.Entries = append(oversized.Entries, types.BatchEntry{URL: fmt.Sprintf("https://p%d.example.com", i)})
	}
	rec = doJSON(t, handler, http.MethodPost, "/batch-grade", oversized)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "over the batch cap")
}

func TestHandleBatchUploadRawCSV(t *testing.T) {
	s := testServer(t, &stubGrader{score: 40}, nil)

	csv := "Id,Name,Portfolio Link\n1,Jane,https://janedoe.dev\n"
	req := httptest.NewRequest(http.MethodPost, "/batch-upload-csv", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var batch types.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "Jane", batch.Results[0].Name)
}

func TestHandleBatchUploadMultipart(t *testing.T) {
	s := testServer(t, &stubGrader{score: 40}, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Portfolio Link\nhttps://janedoe.dev\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/batch-upload-csv", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var batch types.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Len(t, batch.Results, 1)
}

func TestHandleBatchUploadBadCSV(t *testing.T) {
	s := testServer(t, &stubGrader{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/batch-upload-csv", strings.NewReader("Portfolio Link\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBatchExportCSV(t *testing.T) {
	s := testServer(t, &stubGrader{score: 60}, nil)

	body := batchRequest{Entries: []types.BatchEntry{{URL: "https://janedoe.dev"}}}
	rec := doJSON(t, s.Handler(), http.MethodPost, "/batch-export-csv", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "https://janedoe.dev")
	assert.Contains(t, rec.Body.String(), "about_section")
}

func TestHandleBatchExportXLSX(t *testing.T) {
	s := testServer(t, &stubGrader{score: 60}, nil)

	body := batchRequest{Entries: []types.BatchEntry{{URL: "https://janedoe.dev"}}}
	rec := doJSON(t, s.Handler(), http.MethodPost, "/batch-export-xlsx", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestHandleShare(t *testing.T) {
	store := cache.NewMemory()
	s := testServer(t, &stubGrader{}, store)

	result := &types.GradingResult{URL: "https://janedoe.dev", Success: true, Score: 80}
	require.NoError(t, store.Put(context.Background(), result, time.Hour))
	link, err := store.CreateShare(context.Background(), result.URL, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/share/"+link.ID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var shared types.GradingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shared))
	assert.Equal(t, 80, shared.Score)
}

func TestHandleShareNotFound(t *testing.T) {
	s := testServer(t, &stubGrader{}, cache.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/share/unknown12345", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheEndpointsRequireAdmin(t *testing.T) {
	store := cache.NewMemory()
	s := testServer(t, &stubGrader{}, store)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodDelete, "/cache/all", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no token")

	token, err := s.tokens.Mint("ops")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodDelete, "/cache/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCacheDelete(t *testing.T) {
	store := cache.NewMemory()
	s := testServer(t, &stubGrader{}, store)

	result := &types.GradingResult{URL: "https://janedoe.dev", Success: true}
	require.NoError(t, store.Put(context.Background(), result, time.Hour))

	token, err := s.tokens.Mint("ops")
	require.NoError(t, err)

	body, _ := json.Marshal(gradeRequest{URL: "https://janedoe.dev"})
	req := httptest.NewRequest(http.MethodDelete, "/cache", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cached, err := store.Get(context.Background(), "https://janedoe.dev")
	require.NoError(t, err)
	assert.Nil(t, cached, "entry evicted")
}

func TestHandleStatus(t *testing.T) {
	s := testServer(t, &stubGrader{}, cache.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Contains(t, status, "cache")
	assert.Contains(t, status, "ai_enabled")
}

func TestHandleHealthAndMetrics(t *testing.T) {
	s := testServer(t, &stubGrader{}, nil)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(t, &stubGrader{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/grade", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidateTargetURL(t *testing.T) {
	assert.NoError(t, validateTargetURL("https://janedoe.dev"))
	assert.NoError(t, validateTargetURL("http://example.com/portfolio"))

	assert.Error(t, validateTargetURL("ftp://example.com"))
	assert.Error(t, validateTargetURL("https://"))
	assert.Error(t, validateTargetURL("http://localhost:3000"))
	assert.Error(t, validateTargetURL("http://app.localhost"))
	assert.Error(t, validateTargetURL("http://127.0.0.1"))
	assert.Error(t, validateTargetURL("http://[::1]:8080"))
}
