package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lnrcli/lnr/internal/config"
	"github.com/lnrcli/lnr/internal/linear"
)

const issueDetailJSON = `{"data":{"issue":{
	"id":"iss-1","identifier":"ENG-1","title":"Broken build","url":"https://linear.app/i/ENG-1",
	"description":"","priority":2,"createdAt":"2026-01-01","updatedAt":"2026-01-02",
	"team":{"id":"team-1","key":"ENG","name":"Engineering"},
	"state":{"name":"In Progress","color":"#ff0000"},
	"assignee":{"name":"Alice"},"cycle":null,"project":null,
	"labels":{"nodes":[]}}}}`

func TestIssueCloseSelectsCompletedState(t *testing.T) {
	var updateInput map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		switch {
		case strings.Contains(call.Query, "workflowStates"):
			_, _ = w.Write([]byte(`{"data":{"workflowStates":{"nodes":[
				{"id":"st-todo","name":"Todo","type":"unstarted"},
				{"id":"st-done","name":"Shipped","type":"completed"},
				{"id":"st-cancel","name":"Canceled","type":"canceled"}]}}}`))
		case strings.Contains(call.Query, "issueUpdate"):
			updateInput, _ = call.Variables["input"].(map[string]any)
			_, _ = w.Write([]byte(`{"data":{"issueUpdate":{"issue":
				{"id":"iss-1","identifier":"ENG-1","title":"Broken build","url":"https://linear.app/i/ENG-1"}}}}`))
		default:
			_, _ = w.Write([]byte(issueDetailJSON))
		}
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	deps := testDeps(srv, &out, &errOut)
	t.Setenv("LINEAR_API_KEY", "key")

	code := ExecuteWith(deps, []string{"issue", "close", "ENG-1"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, errOut.String())
	}
	if updateInput["stateId"] != "st-done" {
		t.Fatalf("expected completed-type state selected, got %v", updateInput)
	}
}

func TestIssueReopenSelectsUnstartedState(t *testing.T) {
	var updateInput map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		switch {
		case strings.Contains(call.Query, "workflowStates"):
			_, _ = w.Write([]byte(`{"data":{"workflowStates":{"nodes":[
				{"id":"st-done","name":"Done","type":"completed"},
				{"id":"st-todo","name":"Todo","type":"unstarted"}]}}}`))
		case strings.Contains(call.Query, "issueUpdate"):
			updateInput, _ = call.Variables["input"].(map[string]any)
			_, _ = w.Write([]byte(`{"data":{"issueUpdate":{"issue":
				{"id":"iss-1","identifier":"ENG-1","title":"Broken build"}}}}`))
		default:
			_, _ = w.Write([]byte(issueDetailJSON))
		}
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	deps := testDeps(srv, &out, &errOut)
	t.Setenv("LINEAR_API_KEY", "key")

	code := ExecuteWith(deps, []string{"issue", "reopen", "ENG-1"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, errOut.String())
	}
	if updateInput["stateId"] != "st-todo" {
		t.Fatalf("expected unstarted-type state selected, got %v", updateInput)
	}
}

func TestIssueListUsesDefaultTeamFromConfig(t *testing.T) {
	var filter map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		filter, _ = call.Variables["filter"].(map[string]any)
		_, _ = w.Write([]byte(`{"data":{"issues":{"nodes":[
			{"id":"iss-1","identifier":"ENG-1","title":"a","priority":0,
			 "state":{"name":"Todo","color":""},"team":{"key":"ENG"}}],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	deps := testDeps(srv, &out, &errOut)
	deps.Config = config.Config{DefaultTeam: "ENG"}
	t.Setenv("LINEAR_API_KEY", "key")

	code := ExecuteWith(deps, []string{"issue", "list"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, errOut.String())
	}
	team, _ := filter["team"].(map[string]any)
	if team == nil {
		t.Fatalf("expected team filter from config default, got %v", filter)
	}
	if !strings.Contains(out.String(), "ENG-1") {
		t.Fatalf("expected issue row, got %q", out.String())
	}
}

func TestIssueListNotFoundTeam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		if strings.Contains(call.Query, "teams(") {
			_, _ = w.Write([]byte(`{"data":{"teams":{"nodes":[]}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"workflowStates":{"nodes":[]}}}`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	deps := testDeps(srv, &out, &errOut)
	t.Setenv("LINEAR_API_KEY", "key")

	code := ExecuteWith(deps, []string{"issue", "list", "--team", "NOPE", "--status", "Done"})
	if code != 4 {
		t.Fatalf("expected exit 4 for unknown team, got %d (stderr: %s)", code, errOut.String())
	}
}

func TestIssueViewJSONRoundTrips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(issueDetailJSON))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	deps := testDeps(srv, &out, &errOut)
	t.Setenv("LINEAR_API_KEY", "key")

	code := ExecuteWith(deps, []string{"issue", "view", "ENG-1", "--format", "json"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, errOut.String())
	}

	var detail linear.IssueDetail
	if err := json.Unmarshal(out.Bytes(), &detail); err != nil {
		t.Fatalf("JSON output must round-trip: %v", err)
	}
	if detail.Identifier != "ENG-1" || detail.State != "In Progress" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestIssueCommentRequiresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"issue":{"id":"iss-1"}}}`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	deps := testDeps(srv, &out, &errOut)
	t.Setenv("LINEAR_API_KEY", "key")

	code := ExecuteWith(deps, []string{"issue", "comment", "ENG-1"})
	if code != 2 {
		t.Fatalf("expected exit 2 for missing body, got %d", code)
	}
}
