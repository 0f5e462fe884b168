package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lnrcli/lnr/internal/auth"
	"github.com/lnrcli/lnr/internal/config"
)

func TestAuthStatusJSONEnv(t *testing.T) {
	var out, errOut bytes.Buffer
	deps := Dependencies{
		In:        bytes.NewBuffer(nil),
		Out:       &out,
		Err:       &errOut,
		Now:       time.Now,
		AuthStore: auth.NewStore(filepath.Join(t.TempDir(), "auth.json")),
	}

	t.Setenv("LINEAR_API_KEY", "env-key")

	code := ExecuteWith(deps, []string{"auth", "status", "--format", "json"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, errOut.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if payload["authenticated"] != true {
		t.Fatalf("expected authenticated true, got %v", payload)
	}
	if payload["source"] != "env" {
		t.Fatalf("expected source env, got %v", payload)
	}
}

func TestAuthStatusNotAuthenticated(t *testing.T) {
	var out, errOut bytes.Buffer
	deps := Dependencies{
		In:        bytes.NewBuffer(nil),
		Out:       &out,
		Err:       &errOut,
		Now:       time.Now,
		AuthStore: auth.NewStore(filepath.Join(t.TempDir(), "auth.json")),
	}

	t.Setenv("LINEAR_API_KEY", "")

	code := ExecuteWith(deps, []string{"auth", "status"})
	if code != 3 {
		t.Fatalf("expected exit 3, got %d", code)
	}
	if !strings.Contains(out.String(), "Not authenticated") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestAuthLoginSavesTrimmedKey(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "auth.json")
	var out, errOut bytes.Buffer
	deps := Dependencies{
		In:        strings.NewReader("  lin_api_secret  \n"),
		Out:       &out,
		Err:       &errOut,
		Now:       time.Now,
		AuthStore: auth.NewStore(storePath),
	}

	code := ExecuteWith(deps, []string{"auth", "login"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, errOut.String())
	}

	data, ok, err := auth.NewStore(storePath).Load()
	if err != nil || !ok {
		t.Fatalf("expected key saved: %v %v", ok, err)
	}
	if data.APIKey != "lin_api_secret" {
		t.Fatalf("expected trimmed key, got %q", data.APIKey)
	}
}

func TestAuthLoginNoInputRequiresFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	deps := Dependencies{
		In:        bytes.NewBuffer(nil),
		Out:       &out,
		Err:       &errOut,
		Now:       time.Now,
		AuthStore: auth.NewStore(filepath.Join(t.TempDir(), "auth.json")),
	}

	code := ExecuteWith(deps, []string{"auth", "login", "--no-input"})
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestConfigAPIKeyIsLastResort(t *testing.T) {
	deps := Dependencies{
		AuthStore: auth.NewStore(filepath.Join(t.TempDir(), "auth.json")),
		Config:    config.Config{APIKey: "config-key"},
	}
	ctx := &commandContext{deps: deps, global: &GlobalOptions{}}

	t.Setenv("LINEAR_API_KEY", "")

	key, source, err := ctx.resolveAPIKey()
	if err != nil {
		t.Fatalf("resolveAPIKey() error: %v", err)
	}
	if key != "config-key" || source != "config" {
		t.Fatalf("expected config fallback, got %q from %q", key, source)
	}

	t.Setenv("LINEAR_API_KEY", "env-key")
	key, source, err = ctx.resolveAPIKey()
	if err != nil {
		t.Fatalf("resolveAPIKey() error: %v", err)
	}
	if key != "env-key" || source != "env" {
		t.Fatalf("env must beat config, got %q from %q", key, source)
	}
}
