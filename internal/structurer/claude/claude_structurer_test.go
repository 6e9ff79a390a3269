package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faxfhir/internal/config"
	"faxfhir/internal/structurer"
	"faxfhir/internal/structurer/claude"
)

func newTestStructurer(serverURL string) *claude.Structurer {
	cfg := &config.StructurerProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-3-5-haiku-20241022",
		TimeoutSecs:  30,
	}
	return claude.NewWithEndpoint(cfg, serverURL)
}

func TestClaudeStructurer_Success(t *testing.T) {
	replyText := "```json\n" + `{"fhirBundle":{"resourceType":"Bundle","type":"collection"},"confidence":{"overallConfidence":"high","confidenceScore":88,"flaggedFields":[],"parsingIssues":[],"reasoning":"Clean scan"}}` + "\n```"
	responseBody := map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": replyText},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "claude-3-5-haiku-20241022", reqBody["model"])
		assert.Equal(t, float64(3000), reqBody["max_tokens"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		prompt := msg["content"].(string)
		assert.True(t, strings.Contains(prompt, "REFERRAL FOR: Dr. Adams"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	s := newTestStructurer(server.URL)

	out, err := s.Structure(context.Background(), "REFERRAL FOR: Dr. Adams")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-20241022", out.ModelUsed)
	assert.Equal(t, "Bundle", out.Bundle["resourceType"])
	require.NotNil(t, out.Confidence)
	require.NotNil(t, out.Confidence.ConfidenceScore)
	assert.Equal(t, 88, *out.Confidence.ConfidenceScore)
}

func TestClaudeStructurer_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	s := newTestStructurer(server.URL)

	_, err := s.Structure(context.Background(), "text")
	var rlErr *structurer.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
}

func TestClaudeStructurer_Truncated(t *testing.T) {
	responseBody := map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": `{"fhirBundle":`},
		},
		"stop_reason": "max_tokens",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	s := newTestStructurer(server.URL)

	_, err := s.Structure(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestClaudeStructurer_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	s := newTestStructurer(server.URL)

	_, err := s.Structure(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
