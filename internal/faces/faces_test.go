package faces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledDetector(t *testing.T) {
	report, err := Disabled{}.Detect(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.False(t, report.Checked)
	assert.False(t, report.HasFace)
}

func TestHTTPDetector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"face_count":1,"confidence":0.92}`))
	}))
	defer server.Close()

	d := NewHTTPDetector(server.URL, time.Second)
	report, err := d.Detect(context.Background(), []byte("imagedata"))
	require.NoError(t, err)
	assert.True(t, report.Checked)
	assert.True(t, report.HasFace)
	assert.Equal(t, 1, report.FaceCount)
	assert.True(t, report.Professional)
}

func TestHTTPDetectorGroupPhotoNotProfessional(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"face_count":3,"confidence":0.9}`))
	}))
	defer server.Close()

	report, err := NewHTTPDetector(server.URL, time.Second).Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, report.HasFace)
	assert.False(t, report.Professional)
}

func TestHTTPDetectorErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPDetector(server.URL, time.Second).Detect(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
