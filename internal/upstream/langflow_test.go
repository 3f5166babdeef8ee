package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseReply_NestedSchema(t *testing.T) {
	body := []byte(`{"outputs":[{"outputs":[{"results":{"message":{"text":"hi","properties":{"sources":["x"]}}}}]}]}`)

	r, err := ParseReply(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Text != "hi" {
		t.Fatalf("expected text hi, got %q", r.Text)
	}
	if len(r.Sources) != 1 || string(r.Sources[0]) != `"x"` {
		t.Fatalf("unexpected sources: %v", r.Sources)
	}
}

func TestParseReply_FlatFallback(t *testing.T) {
	body := []byte(`{"message":{"text":"hi2","properties":{"sources":[]}}}`)

	r, err := ParseReply(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Text != "hi2" {
		t.Fatalf("expected text hi2, got %q", r.Text)
	}
	if r.Sources == nil || len(r.Sources) != 0 {
		t.Fatalf("expected empty sources, got %v", r.Sources)
	}
}

func TestParseReply_UnknownShapeDefaultsEmpty(t *testing.T) {
	r, err := ParseReply([]byte(`{"status":"done","value":42}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Text != "" {
		t.Fatalf("expected empty text, got %q", r.Text)
	}
	if r.Sources == nil || len(r.Sources) != 0 {
		t.Fatalf("expected empty sources, got %v", r.Sources)
	}
}

func TestParseReply_InvalidJSONFails(t *testing.T) {
	if _, err := ParseReply([]byte(`<html>gateway error</html>`)); err == nil {
		t.Fatalf("expected error for non-json body")
	}
}

func TestAsk_SendsAuthAndPayload(t *testing.T) {
	var gotKey string
	var gotReq langflowReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"text":"pong","properties":{"sources":[]}}}`))
	}))
	defer srv.Close()

	client := NewLangflowClient(srv.URL, "secret-key", 5*time.Second)
	r, err := client.Ask(context.Background(), "sess-1", "ping")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if r.Text != "pong" {
		t.Fatalf("unexpected text %q", r.Text)
	}

	if gotKey != "secret-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotReq.InputValue != "ping" || gotReq.SessionID != "sess-1" {
		t.Fatalf("unexpected payload: %+v", gotReq)
	}
	if gotReq.InputType != "chat" || gotReq.OutputType != "chat" {
		t.Fatalf("expected chat/chat type markers, got %q/%q", gotReq.InputType, gotReq.OutputType)
	}
}

func TestAsk_NonSuccessStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "flow not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewLangflowClient(srv.URL, "k", 5*time.Second)
	if _, err := client.Ask(context.Background(), "s", "m"); err == nil {
		t.Fatalf("expected error on 404")
	} else if !strings.Contains(err.Error(), "flow not found") {
		t.Fatalf("expected upstream detail in error, got %v", err)
	}
}

func TestAsk_TimeoutFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewLangflowClient(srv.URL, "k", 50*time.Millisecond)
	if _, err := client.Ask(context.Background(), "s", "m"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
