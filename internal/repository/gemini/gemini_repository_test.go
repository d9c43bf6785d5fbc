//go:build !integration

package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"smartShop/domain"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func textResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(body)
}

func newTestRepository(baseURL string) *GeminiRepository {
	repo := NewGeminiRepository(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
	})
	repo.retryBaseDelay = time.Millisecond
	return repo
}

func TestFallbackExplanation(t *testing.T) {
	got := FallbackExplanation("Wireless Mouse", "Electronics")
	want := "We think you'd like Wireless Mouse because it matches your interests in Electronics and similar items you've viewed."
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestExplain_MockModeNeverCallsOut(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer server.Close()

	repo := NewGeminiRepository(GeminiConfig{APIKey: "k", BaseURL: server.URL, Mock: true})

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FallbackExplanation("Mouse", "Electronics") {
		t.Fatalf("got %q", got)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("mock mode must not reach the network")
	}
}

func TestExplain_MissingAPIKeyFallsBackWithoutNetwork(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer server.Close()

	repo := NewGeminiRepository(GeminiConfig{BaseURL: server.URL})

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FallbackExplanation("Mouse", "Electronics") {
		t.Fatalf("got %q", got)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("missing key must not reach the network")
	}
}

func TestExplain_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(textResponse("Because it suits your reading habit.")))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	got, err := repo.Explain(context.Background(), "Paper Book", "Books", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Because it suits your reading habit." {
		t.Fatalf("got %q", got)
	}
	if gotPath != "/v1/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request shape: %+v", gotBody)
	}
	if !strings.Contains(gotBody.Contents[0].Parts[0].Text, "Paper Book") {
		t.Fatalf("prompt %q", gotBody.Contents[0].Parts[0].Text)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 50 {
		t.Fatalf("maxOutputTokens %d", gotBody.GenerationConfig.MaxOutputTokens)
	}
}

func TestExplain_NotFoundAdvancesConfigurationWithoutBackoff(t *testing.T) {
	var calls int64
	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		paths = append(paths, r.URL.Path)
		if n == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(textResponse("ok")))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)
	// a generously large delay: if 404 incorrectly backed off, the
	// elapsed-time assertion below would trip
	repo.retryBaseDelay = 2 * time.Second

	start := time.Now()
	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q", got)
	}
	if atomic.LoadInt64(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if !strings.Contains(paths[1], "gemini-2.0-flash-001") {
		t.Fatalf("expected the second configuration, got %q", paths[1])
	}
	if elapsed > time.Second {
		t.Fatalf("404 must not spend backoff, elapsed %v", elapsed)
	}
}

func TestExplain_RetriesTransientFailures(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(textResponse("recovered")))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("got %q", got)
	}
	if atomic.LoadInt64(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestExplain_TransientFailuresExhaustIntoNextConfiguration(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.Contains(r.URL.Path, "gemini-2.0-flash:") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(textResponse("from second model")))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from second model" {
		t.Fatalf("got %q", got)
	}
	// three tries against the first configuration, then one success
	if len(paths) != 4 {
		t.Fatalf("expected 4 calls, got %d (%v)", len(paths), paths)
	}
}

func TestExplain_EmptyTextFallsBackImmediately(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FallbackExplanation("Mouse", "Electronics") {
		t.Fatalf("got %q", got)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("an empty response is not retried, got %d calls", calls)
	}
}

func TestExplain_NonRetryableExhaustsIntoFallback(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FallbackExplanation("Mouse", "Electronics") {
		t.Fatalf("got %q", got)
	}
	if atomic.LoadInt64(&calls) != 3 {
		t.Fatalf("expected 3 tries before giving up, got %d", calls)
	}
}

func TestExplain_ModelOverrideStripsPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(textResponse("ok")))
	}))
	defer server.Close()

	repo := NewGeminiRepository(GeminiConfig{
		APIKey:     "k",
		BaseURL:    server.URL,
		Model:      "models/gemini-custom",
		APIVersion: "v1beta",
	})
	repo.retryBaseDelay = time.Millisecond

	if _, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1beta/models/gemini-custom:generateContent" {
		t.Fatalf("path %q", gotPath)
	}
}

func TestExplain_AttemptTimeoutFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(textResponse("too late")))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)
	repo.attemptTimeout = 10 * time.Millisecond

	got, err := repo.Explain(context.Background(), "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FallbackExplanation("Mouse", "Electronics") {
		t.Fatalf("got %q", got)
	}
}

func TestExplain_CanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)
	repo.retryBaseDelay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	got, err := repo.Explain(ctx, "Mouse", "Electronics", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FallbackExplanation("Mouse", "Electronics") {
		t.Fatalf("got %q", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("cancellation must cut the backoff short")
	}
}

func TestBuildPrompt(t *testing.T) {
	base := buildPrompt("Mouse", nil)
	if base != "Why recommend Mouse? Answer in one sentence." {
		t.Fatalf("base prompt %q", base)
	}

	history := []domain.HistoryItem{
		{Category: "Electronics", Action: domain.ActionView},
		{Category: "Electronics", Action: domain.ActionPurchase},
		{Category: "Books", Action: domain.ActionView},
	}
	got := buildPrompt("Mouse", history)

	if !strings.Contains(got, "Electronics, Books") {
		t.Fatalf("expected categories ordered by frequency, got %q", got)
	}
	if !strings.Contains(got, "purchased before") {
		t.Fatalf("expected the purchase signal, got %q", got)
	}
}
