package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultGroqBaseURL is the OpenAI-compatible Groq endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// DefaultGroqModel is the model used for portfolio reviews.
const DefaultGroqModel = "llama-3.3-70b-versatile"

// groqMaxHTMLChars bounds the HTML embedded in the Groq prompt; Groq's context
// window is smaller than Gemini's.
const groqMaxHTMLChars = 12000

// Groq is the secondary AI provider, speaking the OpenAI chat-completions
// protocol over plain HTTP.
type Groq struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroq creates a Groq provider. An empty API key yields an unavailable
// provider. baseURL is overridable for tests.
func NewGroq(apiKey, baseURL, model string) *Groq {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if model == "" {
		model = DefaultGroqModel
	}
	return &Groq{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

// Name implements Provider.
func (g *Groq) Name() string { return "groq" }

// Available implements Provider.
func (g *Groq) Available() bool { return g.apiKey != "" }

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze implements Provider.
func (g *Groq) Analyze(ctx context.Context, req Request) (string, error) {
	payload := groqRequest{
		Model: g.model,
		Messages: []groqMessage{
			{Role: "user", Content: BuildReviewPrompt(req, groqMaxHTMLChars)},
		},
		Temperature: 0.4,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed groqResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("groq API error: %s", msg)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}
