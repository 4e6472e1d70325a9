package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewClient("claude", "http://localhost:9999", "test-model", nil))

	g, err := reg.Get("claude")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Name() != "claude" {
		t.Errorf("Name() = %q, want claude", g.Name())
	}

	_, err = reg.Get("nope")
	if err == nil {
		t.Fatal("Get(unknown) expected error")
	}
	if !apperrors.HasCode(err, apperrors.CodeUnsupported) {
		t.Errorf("error code = %v, want UNSUPPORTED", err)
	}
}

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		json.NewEncoder(w).Encode(generateResponse{
			Model:    req.Model,
			Response: "Completed migration planning and client demo prep.",
			Done:     true,
		})
	}))
	defer srv.Close()

	client := NewClient("claude", srv.URL, "test-model", nil)
	got, err := client.Generate(context.Background(), "summarize my day")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Completed migration planning and client demo prep." {
		t.Errorf("Generate = %q", got)
	}
}

func TestClientGenerateRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer srv.Close()

	client := NewClient("gemini", srv.URL, "test-model", nil)
	got, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "ok" {
		t.Errorf("Generate = %q, want ok", got)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestClientGenerateCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("claude", srv.URL, "test-model", nil)
	if _, err := client.Generate(ctx, "prompt"); err == nil {
		t.Fatal("expected error with cancelled context")
	}
}
