// Package fetch - client.go combines plain HTTP fetching with the browser
// rendering fallback behind one entry point.
package fetch

import (
	"context"
	"log"
	"time"
)

// Client fetches portfolio HTML, escalating to browser rendering when the
// plain response looks like an unrendered JavaScript shell.
type Client struct {
	options        *Options
	browserEnabled bool
	browserTimeout time.Duration
	verbose        bool
}

// ClientConfig holds configuration for the client.
type ClientConfig struct {
	Options        *Options
	BrowserEnabled bool
	BrowserTimeout time.Duration
	Verbose        bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Options:        DefaultOptions(),
		BrowserEnabled: true,
		BrowserTimeout: DefaultTimeout,
	}
}

// NewClient creates a client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.BrowserTimeout == 0 {
		config.BrowserTimeout = DefaultTimeout
	}
	return &Client{
		options:        config.Options,
		browserEnabled: config.BrowserEnabled,
		browserTimeout: config.BrowserTimeout,
		verbose:        config.Verbose,
	}
}

// Fetch retrieves a portfolio page. When the plain HTTP response looks like an
// unrendered SPA and browser rendering is enabled, the page is re-fetched
// through the headless browser; if rendering fails the plain response is kept.
func (c *Client) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	result, err := URL(ctx, urlStr, c.options)
	if err != nil {
		return nil, err
	}

	if !c.browserEnabled || !LooksLikeSPA(result.HTML) {
		return result, nil
	}

	rendered, err := WithBrowser(ctx, urlStr, c.browserTimeout, c.verbose)
	if err != nil {
		log.Printf("[fetch] browser fallback failed for %s, keeping plain response: %v", urlStr, err)
		return result, nil
	}

	result.HTML = rendered
	result.Method = MethodBrowser
	return result, nil
}

// FetchImage downloads an image referenced by a page, resolving relative URLs
// against the page URL.
func (c *Client) FetchImage(ctx context.Context, imageURL, pageURL string) ([]byte, error) {
	return Bytes(ctx, imageURL, pageURL, c.options)
}
