package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
)

func TestAnthropic_Generate(t *testing.T) {
	var gotPath string
	var gotBody anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(anthropicResponse{
			Model:   "claude-test",
			Content: []anthropicContent{{Type: "text", Text: "hello "}, {Type: "text", Text: "world"}},
			Usage:   anthropicUsage{InputTokens: 10, OutputTokens: 5},
		})
	}))
	defer srv.Close()

	a := NewAnthropic(config.AIConfig{Model: "claude-test", APIKey: "test-key", MaxTokens: 2000})
	a.baseURL = srv.URL

	res, err := a.Generate(context.Background(), "be brief", "say hello", 0)
	require.NoError(t, err)
	assert.Equal(t, "/messages", gotPath)
	assert.Equal(t, "be brief", gotBody.System)
	assert.Equal(t, 2000, gotBody.MaxTokens, "zero maxTokens falls back to config")
	assert.Equal(t, "hello world", res.Text)
	assert.Equal(t, "claude-test", res.Model)
	assert.Equal(t, 5, res.Usage.OutputTokens)
}

func TestAnthropic_GenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAnthropic(config.AIConfig{Model: "claude-test", APIKey: "k"})
	a.baseURL = srv.URL

	_, err := a.Generate(context.Background(), "", "x", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAI_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2, "system turn plus user turn")
		assert.Equal(t, "system", body.Messages[0].Role)
		json.NewEncoder(w).Encode(chatResponse{
			Model:   "gpt-test",
			Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: "done"}}},
			Usage:   chatUsage{PromptTokens: 8, CompletionTokens: 2},
		})
	}))
	defer srv.Close()

	o := NewOpenAI(config.AIConfig{Model: "gpt-test", APIKey: "test-key"})
	o.baseURL = srv.URL

	res, err := o.Generate(context.Background(), "sys", "user", 500)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Text)
	assert.Equal(t, 8, res.Usage.InputTokens)
}

func TestNew_SelectsProvider(t *testing.T) {
	g, err := New(config.AIConfig{Provider: config.ProviderAnthropic})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, g)

	g, err = New(config.AIConfig{Provider: config.ProviderOpenAI})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, g)

	_, err = New(config.AIConfig{Provider: "mystery"})
	require.Error(t, err)
}

func TestMaxTokensForLabel(t *testing.T) {
	assert.Equal(t, 600, MaxTokensForLabel("short"))
	assert.Equal(t, 1500, MaxTokensForLabel("medium"))
	assert.Equal(t, 3000, MaxTokensForLabel("long"))
	assert.Equal(t, 1500, MaxTokensForLabel(""))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 4, CountWords("four words right here"))
	assert.Equal(t, 0, CountWords("   "))
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))

	short := CountTokens("hello")
	long := CountTokens("Write a newsletter section about co-writing trends for independent artists.")
	assert.Greater(t, short, 0)
	assert.Greater(t, long, short)
}
