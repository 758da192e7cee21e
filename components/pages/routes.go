package pages

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes registers the page handler and its file mounts under
// basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers handlers under basePath using a
// pre-built Options value. It returns the registered patterns.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("pages: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	opts, err := Defaults(opts)
	if err != nil {
		return nil, err
	}
	handler, err := HandlerWithOptions(opts)
	if err != nil {
		return nil, err
	}

	var patterns []string
	mount := func(route string, h http.Handler) {
		pattern := mountPath(basePath, route)
		prefix := strings.TrimSuffix(mountPath(basePath, "/"), "/")
		if prefix != "" {
			h = http.StripPrefix(prefix, h)
		}
		mux.Handle(pattern, h)
		patterns = append(patterns, pattern)
	}

	mount("/", handler)
	if opts.Assets != nil {
		mount(opts.AssetsPath, fileServer(opts.AssetsPath, opts.Assets))
	}
	if opts.Static != nil {
		mount(opts.StaticPath, fileServer(opts.StaticPath, opts.Static))
	}
	if opts.APITarget != nil {
		// API endpoints are origin-absolute, so the proxy ignores basePath.
		pattern := mountPath("", opts.APIPath)
		mux.Handle(pattern, apiProxy(opts.APITarget, opts.Logger))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// apiUnavailable is the body sent when the proxied API cannot be reached. It
// has the API's own failure shape so the controller shows it as a rejection.
const apiUnavailable = `{"success":false,"error":"API unavailable"}`

func apiProxy(target *url.URL, logger *zap.Logger) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("api proxy failed", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(apiUnavailable))
		},
	}
}

// MountPath returns the full mount path for route under basePath.
func MountPath(basePath, route string) string {
	return mountPath(basePath, route)
}

func fileServer(route string, fsys fs.FS) http.Handler {
	route = "/" + strings.Trim(route, "/") + "/"
	return http.StripPrefix(route, http.FileServerFS(fsys))
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
