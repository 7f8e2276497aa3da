// Package faces validates profile photos through a pluggable face-detection
// capability. Detection is best-effort: an unreachable or disabled detector
// yields an unchecked report, never a grading failure.
package faces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Report is the outcome of one detection call. Checked is false when no
// detector ran, and consumers must treat that as "unknown", not "no face".
type Report struct {
	Checked      bool    `json:"checked"`
	HasFace      bool    `json:"has_face"`
	FaceCount    int     `json:"face_count"`
	Confidence   float64 `json:"confidence"`
	Professional bool    `json:"professional"`
}

// Detector finds faces in raw image bytes.
type Detector interface {
	Detect(ctx context.Context, image []byte) (Report, error)
}

// Disabled is the no-op detector used when face detection is turned off.
type Disabled struct{}

// Detect implements Detector.
func (Disabled) Detect(context.Context, []byte) (Report, error) {
	return Report{}, nil
}

// DefaultDetectTimeout bounds one detection call.
const DefaultDetectTimeout = 15 * time.Second

// HTTPDetector delegates to an external detection endpoint that accepts raw
// image bytes and answers with a JSON report.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
}

// NewHTTPDetector creates a detector for the given endpoint.
func NewHTTPDetector(endpoint string, timeout time.Duration) *HTTPDetector {
	if timeout == 0 {
		timeout = DefaultDetectTimeout
	}
	return &HTTPDetector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type detectResponse struct {
	FaceCount  int     `json:"face_count"`
	Confidence float64 `json:"confidence"`
}

// Detect implements Detector. A photo is considered professional when exactly
// one face was found with reasonable confidence.
func (d *HTTPDetector) Detect(ctx context.Context, image []byte) (Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(image))
	if err != nil {
		return Report{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.client.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("detection request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("detection endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed detectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Report{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return Report{
		Checked:      true,
		HasFace:      parsed.FaceCount > 0,
		FaceCount:    parsed.FaceCount,
		Confidence:   parsed.Confidence,
		Professional: parsed.FaceCount == 1 && parsed.Confidence >= 0.5,
	}, nil
}
