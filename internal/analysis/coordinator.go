// Package analysis coordinates one grading: fetch, rubric evaluation, AI
// narrative, photo validation, scoring, and caching.
package analysis

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/faces"
	"github.com/jonathan/portfolio-grader/internal/fetch"
	"github.com/jonathan/portfolio-grader/internal/llm"
	"github.com/jonathan/portfolio-grader/internal/metrics"
	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/scoring"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// Fetcher retrieves portfolio pages and their images.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
	FetchImage(ctx context.Context, imageURL, pageURL string) ([]byte, error)
}

// Narrator produces the AI narrative review.
type Narrator interface {
	Analyze(ctx context.Context, req llm.Request) (*llm.Analysis, error)
}

// Options tunes coordinator behavior.
type Options struct {
	CacheTTL       time.Duration
	ShareEnabled   bool
	AIEnabled      bool
	FacesEnabled   bool
	MaxConcurrent  int
	ImageTimeout   time.Duration
	NarrateTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CacheTTL:       cache.DefaultTTL,
		ShareEnabled:   true,
		AIEnabled:      true,
		FacesEnabled:   true,
		MaxConcurrent:  5,
		ImageTimeout:   15 * time.Second,
		NarrateTimeout: llm.DefaultCallTimeout,
	}
}

// Coordinator runs gradings end to end.
type Coordinator struct {
	fetcher   Fetcher
	evaluator *rubric.Evaluator
	narrator  Narrator
	detector  faces.Detector
	store     cache.Store
	metrics   *metrics.Metrics
	opts      Options
}

// New assembles a coordinator. narrator, detector, and store may be nil, which
// disables the corresponding capability.
func New(fetcher Fetcher, evaluator *rubric.Evaluator, narrator Narrator,
	detector faces.Detector, store cache.Store, m *metrics.Metrics, opts Options) *Coordinator {
	if evaluator == nil {
		evaluator = rubric.NewEvaluator(nil)
	}
	if m == nil {
		m = metrics.NewForTest()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultOptions().MaxConcurrent
	}
	return &Coordinator{
		fetcher:   fetcher,
		evaluator: evaluator,
		narrator:  narrator,
		detector:  detector,
		store:     store,
		metrics:   m,
		opts:      opts,
	}
}

// Grade runs one grading. On fetch failure a structured failed result is
// returned together with the error, so callers can choose between status codes
// and batch rows.
func (c *Coordinator) Grade(ctx context.Context, url string) (*types.GradingResult, error) {
	start := time.Now()

	if c.store != nil {
		cached, err := c.store.Get(ctx, url)
		if err != nil {
			log.Printf("[analysis] cache read failed for %s: %v", url, err)
		}
		if cached != nil {
			c.metrics.CacheHits.Inc()
			c.metrics.GradingsTotal.WithLabelValues("cached").Inc()
			return cached, nil
		}
		c.metrics.CacheMisses.Inc()
	}

	page, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		c.metrics.GradingsTotal.WithLabelValues("fetch_error").Inc()
		return &types.GradingResult{
			URL:      url,
			Success:  false,
			Error:    err.Error(),
			GradedAt: time.Now().UTC(),
		}, err
	}

	checklist := c.evaluator.Evaluate(page.HTML, url)

	result := &types.GradingResult{
		URL:         url,
		Success:     true,
		Score:       scoring.Score(checklist),
		Checklist:   checklist,
		Categories:  scoring.Categories(checklist),
		Resources:   scoring.Resources(checklist),
		FetchMethod: string(page.Method),
		GradedAt:    time.Now().UTC(),
	}

	// The AI narrative and the photo validation are independent of the
	// deterministic score; run them concurrently and degrade each to
	// "unavailable" on failure.
	var wg sync.WaitGroup
	if c.opts.AIEnabled && c.narrator != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.AIAnalysis = c.narrate(ctx, url, page.HTML, result)
		}()
	}
	if c.opts.FacesEnabled && c.detector != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Photo = c.validatePhoto(ctx, url, page.HTML)
		}()
	}
	wg.Wait()

	result.DurationMS = time.Since(start).Milliseconds()

	if c.store != nil {
		if err := c.store.Put(ctx, result, c.opts.CacheTTL); err != nil {
			log.Printf("[analysis] cache write failed for %s: %v", url, err)
		} else if c.opts.ShareEnabled {
			if link, err := c.store.CreateShare(ctx, url, cache.DefaultShareExpiry); err == nil {
				result.ShareID = link.ID
			}
		}
	}

	c.metrics.GradingsTotal.WithLabelValues("success").Inc()
	c.metrics.GradingDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// narrate asks the provider chain for the review; a failure is absorbed.
func (c *Coordinator) narrate(ctx context.Context, url, html string, result *types.GradingResult) *types.AIAnalysis {
	narrateCtx, cancel := context.WithTimeout(ctx, c.opts.NarrateTimeout)
	defer cancel()

	analysis, err := c.narrator.Analyze(narrateCtx, llm.Request{
		URL:        url,
		HTML:       html,
		Score:      result.Score,
		FailedKeys: result.Checklist.Failed(),
	})
	if err != nil {
		log.Printf("[analysis] AI narrative unavailable for %s: %v", url, err)
		return nil
	}
	return &types.AIAnalysis{Text: analysis.Text, Provider: analysis.Provider}
}

// validatePhoto downloads the most likely profile image and runs detection.
// Every failure path yields an unchecked report.
func (c *Coordinator) validatePhoto(ctx context.Context, pageURL, html string) *types.FaceReport {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &types.FaceReport{}
	}
	src := c.evaluator.ProfileImageSrc(doc)
	if src == "" || strings.HasPrefix(src, "data:") {
		return &types.FaceReport{}
	}

	imgCtx, cancel := context.WithTimeout(ctx, c.opts.ImageTimeout)
	defer cancel()

	image, err := c.fetcher.FetchImage(imgCtx, src, pageURL)
	if err != nil {
		log.Printf("[analysis] profile image download failed for %s: %v", pageURL, err)
		return &types.FaceReport{ImageURL: src}
	}

	report, err := c.detector.Detect(imgCtx, image)
	if err != nil {
		log.Printf("[analysis] face detection unavailable for %s: %v", pageURL, err)
		return &types.FaceReport{ImageURL: src}
	}
	return &types.FaceReport{
		Checked:      report.Checked,
		HasFace:      report.HasFace,
		FaceCount:    report.FaceCount,
		Confidence:   report.Confidence,
		Professional: report.Professional,
		ImageURL:     src,
	}
}
