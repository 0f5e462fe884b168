package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const cyclesListJSON = `{"data":{"cycles":{"nodes":[
	{"id":"cy-1","name":"Sprint 1","number":1,"startsAt":"2026-01-01","endsAt":"2026-01-14","isActive":false},
	{"id":"cy-2","name":"Sprint 2","number":2,"startsAt":"2026-01-15","endsAt":"2026-01-28","isActive":true}],
	"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`

func TestResolveCycleIDByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cyclesListJSON))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).ResolveCycleID(context.Background(), "ENG", "sprint 1")
	if err != nil {
		t.Fatalf("ResolveCycleID() error: %v", err)
	}
	if id != "cy-1" {
		t.Fatalf("expected cy-1, got %q", id)
	}
}

func TestResolveCycleIDByNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cyclesListJSON))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).ResolveCycleID(context.Background(), "ENG", "2")
	if err != nil {
		t.Fatalf("ResolveCycleID() error: %v", err)
	}
	if id != "cy-2" {
		t.Fatalf("expected cy-2, got %q", id)
	}
}

func TestResolveCycleIDCurrent(t *testing.T) {
	var gotFilter map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotFilter, _ = req.Variables["filter"].(map[string]any)
		_, _ = w.Write([]byte(`{"data":{"cycles":{"nodes":[
			{"id":"cy-2","name":"Sprint 2","number":2,"isActive":true}],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).ResolveCycleID(context.Background(), "ENG", "current")
	if err != nil {
		t.Fatalf("ResolveCycleID() error: %v", err)
	}
	if id != "cy-2" {
		t.Fatalf("expected cy-2, got %q", id)
	}
	if gotFilter == nil || gotFilter["isActive"] == nil {
		t.Fatalf("expected isActive filter, got %v", gotFilter)
	}
}

func TestResolveCycleIDUnknownName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cyclesListJSON))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ResolveCycleID(context.Background(), "ENG", "Sprint 99")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveCycleIDOpaquePassthrough(t *testing.T) {
	client := testClient("http://127.0.0.1:0")
	opaque := "aaaaaaaabbbbbbbbccccccccdddddddd"
	id, err := client.ResolveCycleID(context.Background(), "ENG", opaque)
	if err != nil {
		t.Fatalf("ResolveCycleID() error: %v", err)
	}
	if id != opaque {
		t.Fatalf("expected passthrough, got %q", id)
	}
}
