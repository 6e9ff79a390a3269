package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"faxfhir/internal/config"
	"faxfhir/internal/port"
	"faxfhir/internal/structurer"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Structurer implements port.Structurer using the Anthropic Messages API.
type Structurer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a Claude-based structurer from a provider config.
func New(cfg *config.StructurerProviderConfig) *Structurer {
	return newStructurer(cfg, apiURL)
}

// NewWithEndpoint creates a structurer pointing at a custom API endpoint (for testing).
func NewWithEndpoint(cfg *config.StructurerProviderConfig, endpoint string) *Structurer {
	return newStructurer(cfg, endpoint)
}

func newStructurer(cfg *config.StructurerProviderConfig, endpoint string) *Structurer {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Structurer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *Structurer) Name() string { return "claude" }

func (s *Structurer) Structure(ctx context.Context, text string) (*port.StructureOutput, error) {
	prompt := structurer.BuildReferralPrompt(text)

	reqBody := map[string]interface{}{
		"model":      s.model,
		"max_tokens": 3000,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := structurer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, structurer.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, s.model)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.StructureOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return structurer.Decode(resp.Content[0].Text, model)
}
