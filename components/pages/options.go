package pages

import (
	"io/fs"
	"net/http"
	"net/url"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/render"
)

// FormatParam selects a renderer by name for one request.
const FormatParam = "format"

type GuardFunc func(r *http.Request) error

type Options struct {
	Registry     *render.Registry
	Contract     *contract.Contract
	RendererName string
	Theme        *theme.RendererConfig

	// Script is the bundle URL written into every page; RuntimeScript is the
	// wasm_exec.js URL that turns Script into a wasm bundle.
	Script        string
	RuntimeScript string

	// RedirectDelay, when set, is published on every page for the
	// controller's post-login navigation.
	RedirectDelay *time.Duration

	// APITarget, when set, receives every request under APIPath. The browser
	// controller posts to its own origin, so a page server without the API
	// proxies it here.
	APIPath   string
	APITarget *url.URL

	AssetsPath string
	Assets     fs.FS
	StaticPath string
	Static     fs.FS

	Guard  GuardFunc
	Logger *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RendererName: "html",
		AssetsPath:   "/assets/",
		StaticPath:   "/static/",
		APIPath:      "/api/",
		Logger:       zap.NewNop(),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RendererName == "" {
		opts.RendererName = "html"
	}
	if opts.AssetsPath == "" {
		opts.AssetsPath = "/assets/"
	}
	if opts.StaticPath == "" {
		opts.StaticPath = "/static/"
	}
	if opts.APIPath == "" {
		opts.APIPath = "/api/"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithRegistry(registry *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = registry
	}
}

func WithContract(c *contract.Contract) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Contract = c
	}
}

func WithRendererName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RendererName = name
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

// WithScript sets the controller bundle URL. A non-empty runtime marks the
// bundle as wasm and loads the runtime first.
func WithScript(script, runtime string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Script = script
		o.RuntimeScript = runtime
	}
}

// WithRedirectDelay publishes d as the page's post-login redirect delay.
func WithRedirectDelay(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil || d < 0 {
			return
		}
		o.RedirectDelay = &d
	}
}

// WithAPIProxy forwards requests under /api/ to target.
func WithAPIProxy(target *url.URL) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APITarget = target
	}
}

func WithAssets(path string, fsys fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AssetsPath = path
		o.Assets = fsys
	}
}

func WithStatic(path string, fsys fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.StaticPath = path
		o.Static = fsys
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
