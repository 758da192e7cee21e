package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/internal/config"
	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/render"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_HTML(t *testing.T) {
	out, err := execute(t, "render", "login", "--script", "/static/verisure.js")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`data-page-kind="login"`, `id="loginForm"`, `src="/static/verisure.js"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestRender_JSONWithThemeFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verisure.yaml")
	raw := "theme:\n  variant: dark\n  tokens:\n    brand: \"#000000\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "--config", path, "render", "role-select", "--format", "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var shell render.Shell
	if err := json.Unmarshal([]byte(out), &shell); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var roles []string
	for _, r := range shell.Roles {
		roles = append(roles, r.Token)
	}
	if diff := cmp.Diff([]string{"institute", "verifier"}, roles); diff != "" {
		t.Fatalf("roles mismatch (-want +got):\n%s", diff)
	}

	html, err := execute(t, "--config", path, "render", "role-select")
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(html, `data-theme-variant="dark"`) || !strings.Contains(html, "--brand: #000000;") {
		t.Fatalf("expected themed page:\n%s", html)
	}
}

func TestRender_RejectsUnknownPage(t *testing.T) {
	if _, err := execute(t, "render", "admin"); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.EndpointBlockchainStatus:
			_, _ = io.WriteString(w, `{"success":true,"connected":true,"latestBlock":1234}`)
		case api.EndpointCertificates:
			_, _ = io.WriteString(w, `{"success":true,"certificates":[{"certificate_id":"c1"},{"certificate_id":"c2"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := execute(t, "--base-url", srv.URL, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"connected", "1234", "Certificates: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCertificates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"certificates":[{"certificate_id":"c1","uid":"u1","candidate_name":"Ada","course_name":"Go","org_name":"Acme","ipfs_hash":"Qm1"}]}`)
	}))
	defer srv.Close()

	out, err := execute(t, "--base-url", srv.URL, "certificates")
	if err != nil {
		t.Fatalf("certificates: %v", err)
	}
	for _, want := range []string{"Certificate ID", "c1", "Ada", "Qm1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCertificates_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"node unreachable"}`)
	}))
	defer srv.Close()

	_, err := execute(t, "--base-url", srv.URL, "certificates")
	if err == nil || !strings.Contains(err.Error(), "node unreachable") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verisure.yaml")
	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != config.DefaultYAML {
		t.Fatalf("unexpected file contents")
	}
	if _, err := execute(t, "config", "init", path); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Fatalf("forced init: %v", err)
	}
}

func TestInvalidBaseURLFlag(t *testing.T) {
	if _, err := execute(t, "--base-url", "/relative", "status"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRender_ConfiguredDelayAndEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verisure.yaml")
	raw := "redirect_delay: 250ms\ntemplates:\n  engine: go-template\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "--config", path, "render", "login")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`data-redirect-delay="250"`, `id="loginForm"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestServe_ProxiesAPIAndPublishesDelay(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != api.EndpointLogin {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"redirect":"/verifier-dashboard"}`)
	}))
	defer backend.Close()

	cfg := config.Default()
	cfg.BaseURL = backend.URL
	a := &app{cfg: cfg, logger: zap.NewNop()}
	mux, _, err := a.pagesMux()
	if err != nil {
		t.Fatalf("pages mux: %v", err)
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := api.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	resp, err := client.PostJSON(context.Background(), api.EndpointLogin, map[string]string{"email": "a@b.c"})
	if err != nil {
		t.Fatalf("login through page server: %v", err)
	}
	if !resp.Success || resp.Redirect != "/verifier-dashboard" {
		t.Fatalf("unexpected response %+v", resp)
	}

	res, err := http.Get(srv.URL + "/login")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `data-redirect-delay="1000"`) {
		t.Fatalf("expected configured delay on page:\n%s", body)
	}
}
