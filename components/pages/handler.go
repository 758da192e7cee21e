package pages

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/render"
	"github.com/goliatone/go-verisure/pkg/renderers/html"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Defaults fills the registry and contract when opts lacks them. The default
// registry holds the HTML and JSON renderers.
func Defaults(opts Options) (Options, error) {
	if opts.Contract == nil {
		c, err := contract.Default()
		if err != nil {
			return opts, fmt.Errorf("pages: load contract: %w", err)
		}
		opts.Contract = c
	}
	if opts.Registry == nil {
		renderer, err := html.New(html.WithDefaultTheme(opts.Theme))
		if err != nil {
			return opts, fmt.Errorf("pages: html renderer: %w", err)
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			return opts, fmt.Errorf("pages: registry: %w", err)
		}
		opts.Registry = registry
	}
	if opts.Assets == nil {
		opts.Assets = html.Assets()
	}
	return opts, nil
}

// NewHandler builds the page handler with default options plus overrides.
func NewHandler(fns ...OptionFn) (http.Handler, error) {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions serves the page whose route matches the request path.
// basePath prefixes are stripped by RegisterRoutes before the handler runs.
func HandlerWithOptions(opts Options) (http.Handler, error) {
	opts = NewOptions(func(o *Options) { *o = opts })
	opts, err := Defaults(opts)
	if err != nil {
		return nil, err
	}
	if !opts.Registry.Has(opts.RendererName) {
		return nil, fmt.Errorf("pages: renderer %q is not registered", opts.RendererName)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		kind, ok := page.KindForRoute(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		name := opts.RendererName
		if format := strings.TrimSpace(r.URL.Query().Get(FormatParam)); format != "" {
			if !opts.Registry.Has(format) {
				http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
				return
			}
			name = format
		}

		shell, err := render.BuildShell(kind, opts.Contract)
		if err != nil {
			opts.Logger.Error("page shell failed", zap.Stringer("kind", kind), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		body, contentType, err := opts.Registry.Render(r.Context(), name, shell, render.RenderOptions{
			Theme:         opts.Theme,
			Script:        opts.Script,
			RuntimeScript: opts.RuntimeScript,
			RedirectDelay: opts.RedirectDelay,
		})
		if err != nil {
			opts.Logger.Error("page render failed", zap.Stringer("kind", kind), zap.String("renderer", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
		opts.Logger.Debug("page served", zap.Stringer("kind", kind), zap.String("renderer", name))
	}), nil
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
