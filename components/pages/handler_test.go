package pages

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/render"
)

func serve(t *testing.T, h http.Handler, method, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}

func TestHandler_ServesEveryRoute(t *testing.T) {
	h, err := NewHandler()
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	for _, kind := range page.Kinds {
		if kind == page.KindProbe {
			continue
		}
		res := serve(t, h, http.MethodGet, kind.Route())
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", kind, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: expected html content type, got %q", kind, ct)
		}
		if want := `data-page-kind="` + string(kind) + `"`; !strings.Contains(readBody(t, res), want) {
			t.Fatalf("%s: expected %s in page", kind, want)
		}
	}
}

func TestHandler_JSONFormat(t *testing.T) {
	h, err := NewHandler()
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	res := serve(t, h, http.MethodGet, "/verifier-dashboard?format=json")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var shell render.Shell
	if err := json.NewDecoder(res.Body).Decode(&shell); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var forms []string
	for _, f := range shell.Forms {
		forms = append(forms, f.ID)
	}
	if diff := cmp.Diff([]string{"verifyCertForm"}, forms); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
	if shell.Upload == nil || !shell.Upload.Hidden {
		t.Fatalf("expected hidden upload section, got %+v", shell.Upload)
	}
}

func TestHandler_Rejects(t *testing.T) {
	h, err := NewHandler()
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	cases := []struct {
		name   string
		method string
		target string
		code   int
	}{
		{name: "unknown route", method: http.MethodGet, target: "/admin", code: http.StatusNotFound},
		{name: "post", method: http.MethodPost, target: "/login", code: http.StatusMethodNotAllowed},
		{name: "unknown format", method: http.MethodGet, target: "/login?format=pdf", code: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if res := serve(t, h, tc.method, tc.target); res.StatusCode != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, res.StatusCode)
			}
		})
	}
}

func TestHandler_HeadWritesNoBody(t *testing.T) {
	h, err := NewHandler()
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodHead, "/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200, got %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestHandler_GuardStatus(t *testing.T) {
	h, err := NewHandler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
	}))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	if res := serve(t, h, http.MethodGet, "/institute-dashboard"); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestHandler_ScriptIsWrittenIntoPage(t *testing.T) {
	h, err := NewHandler(WithScript("/static/verisure.wasm", "/static/wasm_exec.js"))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	body := readBody(t, serve(t, h, http.MethodGet, "/login"))
	for _, want := range []string{`src="/static/wasm_exec.js"`, `fetch("/static/verisure.wasm")`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in page:\n%s", want, body)
		}
	}
}

func TestHandler_PublishesRedirectDelay(t *testing.T) {
	h, err := NewHandler(WithRedirectDelay(250 * time.Millisecond))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	body := readBody(t, serve(t, h, http.MethodGet, "/login"))
	if want := page.RedirectDelayAttr + `="250"`; !strings.Contains(body, want) {
		t.Fatalf("expected %s in page:\n%s", want, body)
	}

	h, err = NewHandler()
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	if body := readBody(t, serve(t, h, http.MethodGet, "/login")); strings.Contains(body, page.RedirectDelayAttr) {
		t.Fatalf("no delay expected without the option")
	}
}

func TestHandler_UnknownRenderer(t *testing.T) {
	if _, err := NewHandler(WithRendererName("pdf")); err == nil {
		t.Fatalf("expected error for unregistered renderer")
	}
}
