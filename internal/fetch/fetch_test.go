package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Portfolio</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Portfolio</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, MethodHTTP, result.Method)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestBytes_ResolvesRelativeURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img/profile.jpg" {
			_, _ = w.Write([]byte("jpegdata"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	data, err := Bytes(context.Background(), "/img/profile.jpg", server.URL+"/index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegdata"), data)
}

func TestLooksLikeSPA(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "react shell",
			html: `<html><body><div id="root"></div><script src="/bundle.js"></script></body></html>`,
			want: true,
		},
		{
			name: "next shell",
			html: `<html><body><div id="__next"></div></body></html>`,
			want: true,
		},
		{
			name: "empty body",
			html: `<html><body>   </body></html>`,
			want: true,
		},
		{
			name: "rendered page",
			html: `<html><body><h1>Jane Doe</h1><p>` + strings.Repeat("real portfolio content ", 10) + `</p></body></html>`,
			want: false,
		},
		{
			name: "mount point in large server rendered page",
			html: `<html><body><div id="app"><h1>Jane</h1><p>` + strings.Repeat("server rendered text ", 200) + `</p></div></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeSPA(tt.html))
		})
	}
}

func TestClientFetchNoBrowserNeeded(t *testing.T) {
	page := `<html><body><h1>Jane Doe</h1><p>` + strings.Repeat("portfolio content ", 20) + `</p></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{Options: DefaultOptions(), BrowserEnabled: true})
	result, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, MethodHTTP, result.Method)
	assert.Contains(t, result.HTML, "Jane Doe")
}

func TestClientFetchBrowserDisabledKeepsShell(t *testing.T) {
	shell := `<html><body><div id="root"></div></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shell))
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{Options: DefaultOptions(), BrowserEnabled: false})
	result, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, MethodHTTP, result.Method)
	assert.Contains(t, result.HTML, `id="root"`)
}

func TestClientFetchError(t *testing.T) {
	client := NewClient(nil)
	_, err := client.Fetch(context.Background(), "://bad")
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}
