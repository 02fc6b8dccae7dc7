// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------- Helpers ----------

// capture records what a provider sent to the fake API.
type capture struct {
	path    string
	headers http.Header
	body    map[string]any
}

// newCaptureServer answers every request with status/body and stores the
// last request in c.
func newCaptureServer(t *testing.T, c *capture, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if c != nil {
			c.path = r.URL.Path
			c.headers = r.Header.Clone()
			c.body = map[string]any{}
			_ = json.Unmarshal(raw, &c.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAISuccessBody(text string) []byte {
	b, _ := json.Marshal(openAIResponse{
		Choices: []openAIChoice{{Message: openAIMessage{Role: "assistant", Content: text}}},
	})
	return b
}

func claudeSuccessBody(text string) []byte {
	b, _ := json.Marshal(claudeResponse{
		Content: []claudeContentBlock{{Type: "text", Text: text}},
	})
	return b
}

func geminiSuccessBody(text string) []byte {
	b, _ := json.Marshal(geminiResponse{
		Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}},
	})
	return b
}

var scoreRequest = Request{
	System:      "You are a layout ranking assistant. Always respond with valid JSON only.",
	Prompt:      "score this",
	Temperature: 0.3,
	JSON:        true,
}

// =====================================================================
// OpenAI
// =====================================================================

func TestOpenAIGenerate_Success(t *testing.T) {
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, openAISuccessBody(`{"score":80}`))

	p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), scoreRequest)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"score":80}` {
		t.Errorf("Generate = %q", got)
	}

	if c.path != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", c.path)
	}
	if h := c.headers.Get("Authorization"); h != "Bearer sk-test" {
		t.Errorf("Authorization = %q", h)
	}
	if c.body["model"] != "gpt-4o" {
		t.Errorf("model = %v", c.body["model"])
	}
	if c.body["temperature"] != 0.3 {
		t.Errorf("temperature = %v, want 0.3", c.body["temperature"])
	}
	rf, ok := c.body["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", c.body["response_format"])
	}
	msgs, _ := c.body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if m := msgs[0].(map[string]any); m["role"] != "system" || m["content"] != scoreRequest.System {
		t.Errorf("system message = %v", m)
	}
}

func TestOpenAIGenerate_TextModeOmitsResponseFormat(t *testing.T) {
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, openAISuccessBody("ok"))

	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), Request{System: "s", Prompt: "u", Temperature: 0.7}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := c.body["response_format"]; ok {
		t.Error("response_format should be omitted when JSON is false")
	}
	if _, ok := c.body["max_tokens"]; ok {
		t.Error("max_tokens should be omitted when zero")
	}
}

func TestOpenAIGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error includes body", http.StatusTooManyRequests, `{"error":"rate limit exceeded"}`, "rate limit exceeded"},
		{"malformed json", http.StatusOK, `{not json`, "unmarshal"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCaptureServer(t, nil, tt.status, []byte(tt.body))
			p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), scoreRequest)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIGenerate_CancelledContext(t *testing.T) {
	srv := newCaptureServer(t, nil, http.StatusOK, openAISuccessBody("late"))
	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Generate(ctx, scoreRequest); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestOpenAIGenerate_DefaultBaseURL(t *testing.T) {
	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m"})
	if p.config.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", p.config.BaseURL)
	}
}

func TestOpenAIGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	body, _ := json.Marshal(map[string]any{
		"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
	})
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, body)

	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m", ModelImage: "gpt-image-1", BaseURL: srv.URL})
	img, ct, err := p.GenerateImage(context.Background(), "a bakery storefront")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != string(png) || ct != "image/png" {
		t.Errorf("GenerateImage = %v, %q", img, ct)
	}
	if c.path != "/images/generations" || c.body["model"] != "gpt-image-1" {
		t.Errorf("request = %s %v", c.path, c.body)
	}
}

func TestOpenAIGenerateImage_RequiresModel(t *testing.T) {
	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m"})
	if _, _, err := p.GenerateImage(context.Background(), "x"); err == nil {
		t.Fatal("expected error without ModelImage")
	}
}

// =====================================================================
// Claude
// =====================================================================

func TestClaudeGenerate_Success(t *testing.T) {
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, claudeSuccessBody(`{"score":55}`))

	p := newClaude(ProviderConfig{APIKey: "sk-ant", Model: "claude-sonnet-4-6", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), scoreRequest)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"score":55}` {
		t.Errorf("Generate = %q", got)
	}

	if c.path != "/v1/messages" {
		t.Errorf("path = %q", c.path)
	}
	if c.headers.Get("x-api-key") != "sk-ant" {
		t.Errorf("x-api-key = %q", c.headers.Get("x-api-key"))
	}
	if c.headers.Get("anthropic-version") != "2023-06-01" {
		t.Errorf("anthropic-version = %q", c.headers.Get("anthropic-version"))
	}
	if c.body["system"] != scoreRequest.System {
		t.Errorf("system = %v", c.body["system"])
	}
	if c.body["max_tokens"] != float64(claudeDefaultMaxTokens) {
		t.Errorf("max_tokens = %v", c.body["max_tokens"])
	}
	if c.body["temperature"] != 0.3 {
		t.Errorf("temperature = %v", c.body["temperature"])
	}
}

func TestClaudeGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error includes body", http.StatusUnauthorized, `{"error":"invalid x-api-key"}`, "invalid x-api-key"},
		{"malformed json", http.StatusOK, `nope`, "unmarshal"},
		{"no text block", http.StatusOK, `{"content":[{"type":"tool_use"}]}`, "no text content"},
		{"empty content", http.StatusOK, `{"content":[]}`, "no text content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCaptureServer(t, nil, tt.status, []byte(tt.body))
			p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), scoreRequest)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// =====================================================================
// Gemini
// =====================================================================

func TestGeminiGenerate_Success(t *testing.T) {
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, geminiSuccessBody(`{"storeName":"Bloom"}`))

	p := newGemini(ProviderConfig{APIKey: "g-key", Model: "gemini-2.5-flash", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), scoreRequest)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"storeName":"Bloom"}` {
		t.Errorf("Generate = %q", got)
	}

	if c.path != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", c.path)
	}
	if c.headers.Get("x-goog-api-key") != "g-key" {
		t.Errorf("x-goog-api-key = %q", c.headers.Get("x-goog-api-key"))
	}
	gc, ok := c.body["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("generationConfig missing: %v", c.body)
	}
	if gc["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType = %v", gc["responseMimeType"])
	}
	if gc["temperature"] != 0.3 {
		t.Errorf("temperature = %v", gc["temperature"])
	}
}

func TestGeminiGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error includes body", http.StatusBadRequest, `{"error":"API key not valid"}`, "API key not valid"},
		{"malformed json", http.StatusOK, `[`, "unmarshal"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no candidates"},
		{"empty parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, "no text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCaptureServer(t, nil, tt.status, []byte(tt.body))
			p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), scoreRequest)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGeminiGenerateImage(t *testing.T) {
	body, _ := json.Marshal(geminiResponse{Candidates: []geminiCandidate{{
		Content: geminiContent{Parts: []geminiPart{
			{Text: "here you go"},
			{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: base64.StdEncoding.EncodeToString([]byte("jpg"))}},
		}},
	}}})
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, body)

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", ModelImage: "gemini-2.5-flash-image", BaseURL: srv.URL})
	img, ct, err := p.GenerateImage(context.Background(), "florist hero")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != "jpg" || ct != "image/jpeg" {
		t.Errorf("GenerateImage = %q, %q", img, ct)
	}
	if c.path != "/v1beta/models/gemini-2.5-flash-image:generateContent" {
		t.Errorf("path = %q", c.path)
	}
}

// =====================================================================
// Mistral
// =====================================================================

func TestMistralGenerate_Success(t *testing.T) {
	var c capture
	srv := newCaptureServer(t, &c, http.StatusOK, openAISuccessBody("bonjour"))

	p := newMistral(ProviderConfig{APIKey: "m-key", Model: "mistral-large-latest", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), scoreRequest)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "bonjour" {
		t.Errorf("Generate = %q", got)
	}
	if c.headers.Get("Authorization") != "Bearer m-key" {
		t.Errorf("Authorization = %q", c.headers.Get("Authorization"))
	}
	if c.body["model"] != "mistral-large-latest" {
		t.Errorf("model = %v", c.body["model"])
	}
}

func TestMistralGenerate_ErrorNamesProvider(t *testing.T) {
	srv := newCaptureServer(t, nil, http.StatusInternalServerError, []byte("boom"))
	p := newMistral(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), scoreRequest)
	if err == nil || !strings.HasPrefix(err.Error(), "mistral") {
		t.Errorf("error = %v, want mistral prefix", err)
	}
}

func TestMistralGenerate_DefaultBaseURL(t *testing.T) {
	p := newMistral(ProviderConfig{APIKey: "k", Model: "m"})
	if p.inner.config.BaseURL != "https://api.mistral.ai/v1" {
		t.Errorf("BaseURL = %q", p.inner.config.BaseURL)
	}
}

// =====================================================================
// Registry with real HTTP providers
// =====================================================================

func TestRegistryGenerate_WithRealHTTPProviders(t *testing.T) {
	openaiSrv := newCaptureServer(t, nil, http.StatusOK, openAISuccessBody("from openai"))
	claudeSrv := newCaptureServer(t, nil, http.StatusOK, claudeSuccessBody("from claude"))

	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "k1", Model: "gpt-4o", BaseURL: openaiSrv.URL},
		"claude": {APIKey: "k2", Model: "claude", BaseURL: claudeSrv.URL},
	})

	got, err := reg.Generate(context.Background(), scoreRequest)
	if err != nil || got != "from openai" {
		t.Fatalf("Generate = %q, %v", got, err)
	}

	if err := reg.SetActive("claude"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	got, err = reg.Generate(context.Background(), scoreRequest)
	if err != nil || got != "from claude" {
		t.Fatalf("Generate after switch = %q, %v", got, err)
	}
}

func TestOpenAIGenerate_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "m", BaseURL: url})
	if _, err := p.Generate(context.Background(), scoreRequest); err == nil {
		t.Fatal("expected connection error")
	}
}
