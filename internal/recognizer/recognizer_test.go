package recognizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if !client.Healthy(context.Background()) {
		t.Fatal("healthy server reported unhealthy")
	}

	down := NewClient("http://127.0.0.1:1")
	if down.Healthy(context.Background()) {
		t.Fatal("unreachable server reported healthy")
	}
}

func TestRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ocr" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.HasPrefix(payload.Image, "data:image/png;base64,") {
			t.Errorf("image payload missing data URL prefix: %.40q", payload.Image)
		}
		if err := json.NewEncoder(w).Encode(Result{Success: true, Text: "本"}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	text, err := client.Recognize(context.Background(), []byte("fake png"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "本" {
		t.Fatalf("text = %q, want 本", text)
	}
}

func TestRecognizeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if err := json.NewEncoder(w).Encode(Result{Success: false, Error: "no text found"}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Recognize(context.Background(), []byte("fake png")); err == nil {
		t.Fatal("expected recognition error")
	}
}

func TestRecognizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Recognize(context.Background(), []byte("fake png")); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestDefaultURL(t *testing.T) {
	client := NewClient("")
	if client.baseURL != DefaultServerURL {
		t.Fatalf("baseURL = %q, want %q", client.baseURL, DefaultServerURL)
	}
}
