package devotional

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/platform/logger"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*OpenAIProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := NewOpenAIProvider(Options{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		Temperature: 0.6,
		Timeout:     2 * time.Second,
	}, logger.New("test"))
	return p, srv
}

func completion(content string) []byte {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(payload)
	return b
}

func TestGenerate_ParsesEmbeddedJSON(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer credential, got %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		body := "Sure! ```json\n" + `{"application":"Note.","prayer":"Prayer.","challenge":"Task.","crossrefs":["Psalm 18:2"]}` + "\n```"
		_, _ = w.Write(completion(body))
	})

	content, err := p.Generate(context.Background(), "Psalm 46:1-3", "God is our refuge...", []string{"anxiety", "trust"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if content.Application != "Note." || content.Prayer != "Prayer." || content.Challenge != "Task." {
		t.Fatalf("unexpected content: %+v", content)
	}
	if len(content.CrossRefs) != 1 || content.CrossRefs[0] != "Psalm 18:2" {
		t.Fatalf("unexpected crossrefs: %v", content.CrossRefs)
	}
}

func TestGenerate_UserMessageCarriesThemes(t *testing.T) {
	var userMsg string
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		userMsg = req.Messages[1].Content
		_, _ = w.Write(completion(`{"application":"a","prayer":"p","challenge":"c"}`))
	})

	if _, err := p.Generate(context.Background(), "Psalm 23:1-4", "The LORD is my shepherd", []string{"rest", "comfort"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "Passage: Psalm 23:1-4\nText: The LORD is my shepherd\nRecent themes: rest, comfort"
	if userMsg != want {
		t.Fatalf("user message = %q, want %q", userMsg, want)
	}
}

func TestGenerate_HTTPErrorIsGenerationFailure(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	_, err := p.Generate(context.Background(), "ref", "text", nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("want ErrGenerationFailed, got %v", err)
	}
}

func TestGenerate_NoJSONIsGenerationFailure(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(completion("I would rather write prose today."))
	})
	_, err := p.Generate(context.Background(), "ref", "text", nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("want ErrGenerationFailed, got %v", err)
	}
}

func TestGenerate_MissingFieldsIsGenerationFailure(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(completion(`{"application":"only this"}`))
	})
	_, err := p.Generate(context.Background(), "ref", "text", nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("want ErrGenerationFailed, got %v", err)
	}
}

func TestGenerate_TimeoutIsGenerationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write(completion(`{"application":"a","prayer":"p","challenge":"c"}`))
	}))
	t.Cleanup(srv.Close)
	p := NewOpenAIProvider(Options{
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
		Timeout: 50 * time.Millisecond,
	}, logger.New("test"))

	_, err := p.Generate(context.Background(), "ref", "text", nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("want ErrGenerationFailed, got %v", err)
	}
}
