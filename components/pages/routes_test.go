package pages

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/app", "/"); got != "/app/" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("app", "assets/"); got != "/app/assets/" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("", "/assets/"); got != "/assets/" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_PagesAndFiles(t *testing.T) {
	mux := http.NewServeMux()
	static := fstest.MapFS{"verisure.wasm": {Data: []byte("\x00asm")}}
	patterns, err := RegisterRoutes(mux, "/app", WithStatic("/static/", static))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"/app/", "/app/assets/", "/app/static/"}, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	for target, want := range map[string]int{
		"/app/login":                http.StatusOK,
		"/app/":                     http.StatusOK,
		"/app/assets/verisure.css":  http.StatusOK,
		"/app/static/verisure.wasm": http.StatusOK,
		"/app/static/missing.wasm":  http.StatusNotFound,
		"/app/nowhere":              http.StatusNotFound,
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", target, want, rec.Code)
		}
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, ""); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

func TestRegisterRoutes_ProxiesAPI(t *testing.T) {
	seen := make(chan string, 1)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen <- r.Method + " " + r.URL.Path + " " + string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"redirect":"/institute-dashboard"}`)
	}))
	defer api.Close()
	target, err := url.Parse(api.URL)
	if err != nil {
		t.Fatalf("parse target: %v", err)
	}

	mux := http.NewServeMux()
	patterns, err := RegisterRoutes(mux, "/app", WithAPIProxy(target))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"/app/", "/app/assets/", "/api/"}, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/institute-dashboard"`) {
		t.Fatalf("unexpected proxied body %q", rec.Body.String())
	}
	if got := <-seen; got != `POST /api/login {"email":"a@b.c"}` {
		t.Fatalf("unexpected api request %q", got)
	}
}

func TestRegisterRoutes_UnreachableAPIAnswersInAPIShape(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	target, err := url.Parse(api.URL)
	if err != nil {
		t.Fatalf("parse target: %v", err)
	}
	api.Close()

	mux := http.NewServeMux()
	if _, err := RegisterRoutes(mux, "", WithAPIProxy(target)); err != nil {
		t.Fatalf("register: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != apiUnavailable {
		t.Fatalf("unexpected body %q", got)
	}
}
