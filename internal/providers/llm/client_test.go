package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var captured *http.Request
	var payload chatRequest
	client := NewClient(Options{
		APIKey:  " sk-or-test ",
		BaseURL: "https://llm.example.com/api/v1/",
		Referer: "https://app.example.com",
		Title:   "Video Generator",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			captured = r
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"return X;"}}]}`), nil
		})},
	})

	got, err := client.Complete(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got != "return X;" {
		t.Fatalf("content = %q", got)
	}
	if captured.URL.String() != "https://llm.example.com/api/v1/chat/completions" {
		t.Fatalf("url = %s", captured.URL)
	}
	if h := captured.Header.Get("Authorization"); h != "Bearer sk-or-test" {
		t.Fatalf("authorization = %q", h)
	}
	if h := captured.Header.Get("HTTP-Referer"); h != "https://app.example.com" {
		t.Fatalf("referer = %q", h)
	}
	if h := captured.Header.Get("X-Title"); h != "Video Generator" {
		t.Fatalf("title = %q", h)
	}
	if payload.Model != defaultModel || payload.Temperature != 0.3 || payload.MaxTokens != 12000 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Content != "usr" {
		t.Fatalf("unexpected messages: %+v", payload.Messages)
	}
}

func TestCompleteWithoutKeyMakesNoRequest(t *testing.T) {
	called := false
	client := NewClient(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unreachable")
	})}})
	if err := client.Ready(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Ready = %v", err)
	}
	if _, err := client.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Complete = %v", err)
	}
	if called {
		t.Fatal("transport must not be used without a key")
	}
}

func TestCompleteStatusError(t *testing.T) {
	client := NewClient(Options{
		APIKey: "k",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `{"error":"rate limited"}`), nil
		})},
	})
	_, err := client.Complete(context.Background(), "s", "u")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusTooManyRequests || !strings.Contains(se.Body, "rate limited") {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	for _, body := range []string{`{"choices":[]}`, `{"choices":[{"message":{"content":"  "}}]}`} {
		client := NewClient(Options{
			APIKey: "k",
			HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, body), nil
			})},
		})
		if _, err := client.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("body %s: expected ErrEmptyResponse, got %v", body, err)
		}
	}
}

func TestCompleteTransportError(t *testing.T) {
	client := NewClient(Options{
		APIKey: "k",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		})},
	})
	_, err := client.Complete(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{Model: "  openai/gpt-4o  "})
	if c.Model() != "openai/gpt-4o" {
		t.Fatalf("model = %q", c.Model())
	}
	if c.baseURL != defaultBaseURL || c.temperature != defaultTemperature || c.maxTokens != defaultMaxTokens {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestCompleteSendsZeroTemperature(t *testing.T) {
	var payload map[string]any
	zero := 0.0
	client := NewClient(Options{
		APIKey:      "sk-or-test",
		Temperature: &zero,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`), nil
		})},
	})

	if _, err := client.Complete(context.Background(), "sys", "usr"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	got, ok := payload["temperature"]
	if !ok || got != 0.0 {
		t.Fatalf("temperature = %v (present %v), want 0", got, ok)
	}
}
