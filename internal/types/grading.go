// Package types provides type definitions for structured data used throughout the portfolio-grader system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/jonathan/portfolio-grader/internal/rubric"
)

// AIAnalysis is the narrative review produced by one of the AI providers.
type AIAnalysis struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// FaceReport is the outcome of validating the candidate's profile photo.
// Checked is false when face detection was disabled or unreachable; consumers
// must not penalize an unchecked photo.
type FaceReport struct {
	Checked      bool    `json:"checked"`
	HasFace      bool    `json:"has_face"`
	FaceCount    int     `json:"face_count"`
	Confidence   float64 `json:"confidence"`
	Professional bool    `json:"professional"`
	ImageURL     string  `json:"image_url,omitempty"`
}

// GradingResult is the full outcome of grading one portfolio URL.
type GradingResult struct {
	URL         string           `json:"url"`
	Name        string           `json:"name,omitempty"`
	EntryID     string           `json:"entry_id,omitempty"`
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
	Score       int              `json:"score"`
	Checklist   rubric.Checklist `json:"checklist,omitempty"`
	Categories  []ScoredCategory `json:"categories,omitempty"`
	Resources   []Resource       `json:"learning_resources,omitempty"`
	AIAnalysis  *AIAnalysis      `json:"ai_analysis,omitempty"`
	Photo       *FaceReport      `json:"photo,omitempty"`
	FetchMethod string           `json:"fetch_method,omitempty"`
	FromCache   bool             `json:"from_cache"`
	ShareID     string           `json:"share_id,omitempty"`
	GradedAt    time.Time        `json:"graded_at"`
	DurationMS  int64            `json:"duration_ms"`
}

// ScoredCategory is one row of the weighted category breakdown. Earned is
// all-or-nothing: the full weight when every parameter in the category passed,
// zero otherwise.
type ScoredCategory struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Earned int    `json:"earned"`
	Passed int    `json:"passed"`
	Total  int    `json:"total"`
}

// Resource is one suggested learning resource tied to a failed parameter.
type Resource struct {
	Topic string `json:"topic"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BatchEntry is one row of an uploaded batch: an optional id and name plus the
// portfolio link to grade.
type BatchEntry struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url" validate:"required,url"`
}

// BatchStats summarizes a finished batch.
type BatchStats struct {
	Total        int     `json:"total"`
	Succeeded    int     `json:"succeeded"`
	Failed       int     `json:"failed"`
	AverageScore float64 `json:"average_score"`
	HighScore    int     `json:"high_score"`
	LowScore     int     `json:"low_score"`
}

// BatchResult is the outcome of grading a batch of portfolios. Results keep
// the input order regardless of completion order.
type BatchResult struct {
	Results []GradingResult `json:"results"`
	Stats   BatchStats      `json:"stats"`
}

// ShareLink is a short-lived public handle to one cached grading result.
type ShareLink struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the link is past its expiry.
func (s ShareLink) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ComputeStats derives the summary block from a slice of results.
func ComputeStats(results []GradingResult) BatchStats {
	stats := BatchStats{Total: len(results)}
	sum := 0
	for _, r := range results {
		if !r.Success {
			stats.Failed++
			continue
		}
		if stats.Succeeded == 0 {
			stats.HighScore = r.Score
			stats.LowScore = r.Score
		}
		stats.Succeeded++
		sum += r.Score
		if r.Score > stats.HighScore {
			stats.HighScore = r.Score
		}
		if r.Score < stats.LowScore {
			stats.LowScore = r.Score
		}
	}
	if stats.Succeeded > 0 {
		stats.AverageScore = float64(sum) / float64(stats.Succeeded)
	}
	return stats
}
