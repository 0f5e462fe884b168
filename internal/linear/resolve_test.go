package linear

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mapTeamCache struct {
	teams map[string]string
	puts  []Team
}

func (m *mapTeamCache) GetTeamID(key string) (string, bool) {
	id, ok := m.teams[key]
	return id, ok
}

func (m *mapTeamCache) PutTeam(team Team) {
	m.puts = append(m.puts, team)
}

func TestIsOpaqueID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"ENG-123", false},
		{"abc", false},
		{"aaaaaaaabbbbbbbbccccccccdddddddd", true},
		{"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", false},
	}
	for _, tc := range cases {
		if got := isOpaqueID(tc.in); got != tc.want {
			t.Errorf("isOpaqueID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestResolveTeamIDCacheHitSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"data":{"teams":{"nodes":[{"id":"team-remote","key":"ENG","name":"Engineering"}]}}}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.teams = &mapTeamCache{teams: map[string]string{"ENG": "team-cached"}}

	id, err := client.ResolveTeamID(context.Background(), "ENG")
	if err != nil {
		t.Fatalf("ResolveTeamID() error: %v", err)
	}
	if id != "team-cached" {
		t.Fatalf("expected cached id, got %q", id)
	}
	if calls != 0 {
		t.Fatalf("cache hit must not touch the network, got %d calls", calls)
	}
}

func TestResolveTeamIDMissPopulatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"teams":{"nodes":[{"id":"team-1","key":"ENG","name":"Engineering"}]}}}`))
	}))
	defer srv.Close()

	cache := &mapTeamCache{teams: map[string]string{}}
	client := testClient(srv.URL)
	client.teams = cache

	id, err := client.ResolveTeamID(context.Background(), "ENG")
	if err != nil {
		t.Fatalf("ResolveTeamID() error: %v", err)
	}
	if id != "team-1" {
		t.Fatalf("expected team-1, got %q", id)
	}
	if len(cache.puts) != 1 || cache.puts[0].Key != "ENG" {
		t.Fatalf("expected resolved team cached, got %v", cache.puts)
	}
}

func TestResolveTeamIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"teams":{"nodes":[]}}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ResolveTeamID(context.Background(), "NOPE")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveStateIDExactMatchOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"workflowStates":{"nodes":[
			{"id":"st-1","name":"Done","type":"completed"},
			{"id":"st-2","name":"In Progress","type":"started"}]}}}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	id, err := client.ResolveStateID(context.Background(), "team-1", "done")
	if err != nil {
		t.Fatalf("ResolveStateID() error: %v", err)
	}
	if id != "st-1" {
		t.Fatalf("expected st-1, got %q", id)
	}

	// A prefix is not a match.
	if _, err := client.ResolveStateID(context.Background(), "team-1", "don"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for prefix, got %v", err)
	}
}

func TestResolveStateByType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"workflowStates":{"nodes":[
			{"id":"st-1","name":"Todo","type":"unstarted"},
			{"id":"st-2","name":"Done","type":"completed"},
			{"id":"st-3","name":"Canceled","type":"canceled"}]}}}`))
	}))
	defer srv.Close()

	state, err := testClient(srv.URL).ResolveStateByType(context.Background(), "team-1", "completed")
	if err != nil {
		t.Fatalf("ResolveStateByType() error: %v", err)
	}
	if state.ID != "st-2" {
		t.Fatalf("expected completed-type state st-2, got %q", state.ID)
	}
}

func TestResolveLabelIDsAtomicBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"issueLabels":{"nodes":[
			{"id":"lb-1","name":"Bug"},
			{"id":"lb-2","name":"Feature"}]}}}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	ids, err := client.ResolveLabelIDs(context.Background(), "ENG", []string{"bug", "FEATURE"})
	if err != nil {
		t.Fatalf("ResolveLabelIDs() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "lb-1" || ids[1] != "lb-2" {
		t.Fatalf("unexpected ids: %v", ids)
	}

	// One bad name fails the whole batch.
	if _, err := client.ResolveLabelIDs(context.Background(), "ENG", []string{"bug", "missing"}); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveUserIDMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"viewer":{"id":"u-1","name":"Me","email":"me@example.com"}}}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).ResolveUserID(context.Background(), "me")
	if err != nil {
		t.Fatalf("ResolveUserID() error: %v", err)
	}
	if id != "u-1" {
		t.Fatalf("expected u-1, got %q", id)
	}
}

func TestResolveUserIDRejectsBareName(t *testing.T) {
	client := testClient("http://127.0.0.1:0")
	if _, err := client.ResolveUserID(context.Background(), "alice"); err == nil {
		t.Fatalf("expected error for bare name")
	}
}
