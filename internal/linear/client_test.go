package linear

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return &Client{
		apiURL: url,
		token:  "token",
		http:   &http.Client{Timeout: time.Second},
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Viewer(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestForbiddenMapsToUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Viewer(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Viewer(context.Background())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke\n"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Viewer(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", apiErr.Status)
	}
	if apiErr.Body != "upstream broke" {
		t.Fatalf("expected trimmed body, got %q", apiErr.Body)
	}
}

func TestGraphQLErrorsTakePrecedenceOverData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"viewer":{"id":"u1"}},"errors":[{"message":"boom"},{"message":"again"}]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Viewer(context.Background())
	var gqlErr *GraphQLErrors
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected GraphQLErrors, got %v", err)
	}
	if len(gqlErr.Messages) != 2 || gqlErr.Messages[0] != "boom" {
		t.Fatalf("unexpected messages: %v", gqlErr.Messages)
	}
}

func TestEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Viewer(context.Background())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"viewer":{"id":"u1","name":"n","email":"e"}}}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.token = "Bearer lin_api_123"
	if _, err := client.Viewer(context.Background()); err != nil {
		t.Fatalf("Viewer() error: %v", err)
	}
	if got != "lin_api_123" {
		t.Fatalf("expected bearer prefix stripped, got %q", got)
	}
}

func TestRequestShape(t *testing.T) {
	var req gqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"teams":{"nodes":[]}}}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Teams(context.Background()); err != nil {
		t.Fatalf("Teams() error: %v", err)
	}
	if req.Query == "" {
		t.Fatalf("expected query in request body")
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"lin_api_abc", "lin_api_abc"},
		{"Bearer lin_api_abc", "lin_api_abc"},
		{"bearer lin_api_abc", "lin_api_abc"},
		{"  lin_api_abc  ", "lin_api_abc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeToken(tc.in); got != tc.want {
			t.Errorf("normalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
