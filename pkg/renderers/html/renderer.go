// Package html renders page shells as HTML documents through the pongo2
// template engine, dressed with go-theme tokens.
package html

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/render"
	"github.com/goliatone/go-verisure/pkg/render/template"
	"github.com/goliatone/go-verisure/pkg/render/template/gotemplate"
)

// Name is the registry name of the renderer.
const Name = "html"

// PageTemplate is the template every shell renders through.
const PageTemplate = "page"

//go:embed templates/*.tpl
var templates embed.FS

//go:embed assets/*
var assets embed.FS

// Templates returns the embedded templates.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Assets returns the embedded stylesheet files, served under /assets.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplateRenderer replaces the template engine. The engine must know a
// template named PageTemplate.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithEngine selects the template engine by name (gotemplate.EnginePongo2 or
// gotemplate.EngineGoTemplate) for the embedded templates. It has no effect
// when WithTemplateRenderer supplies an engine.
func WithEngine(name string) Option {
	return func(r *Renderer) {
		r.engineName = name
	}
}

// WithDefaultTheme sets the theme used when RenderOptions carries none.
func WithDefaultTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		if cfg != nil {
			r.theme = cfg
		}
	}
}

// Renderer renders shells to HTML.
type Renderer struct {
	engine     template.TemplateRenderer
	engineName string
	theme      *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer over the embedded templates unless another engine
// is supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := gotemplate.NewNamed(r.engineName, gotemplate.WithFS(Templates()))
		if err != nil {
			return nil, fmt.Errorf("html: template engine: %w", err)
		}
		r.engine = engine
	}
	if r.theme == nil {
		r.theme = render.ThemeConfig(&theme.Selection{Manifest: render.DefaultManifest()})
	}
	return r, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render writes the HTML document for shell.
func (r *Renderer) Render(ctx context.Context, shell render.Shell, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.engine == nil {
		return nil, errors.New("html: renderer is not initialised")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := options.Theme
	if cfg == nil {
		cfg = r.theme
	}
	data := map[string]any{
		"shell":          shell.Prefill(options.Values),
		"theme":          themeContext(cfg),
		"script":         options.Script,
		"runtime_script": options.RuntimeScript,
		"redirect_delay": "",
	}
	if options.RedirectDelay != nil {
		data["redirect_delay"] = page.FormatRedirectDelay(*options.RedirectDelay)
	}
	out, err := r.engine.RenderTemplate(PageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html: render %s: %w", shell.Kind, err)
	}
	return []byte(out), nil
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	vars := make(map[string]any, len(cfg.CSSVars))
	for k, v := range cfg.CSSVars {
		vars[k] = v
	}
	ctx := map[string]any{
		"name":     cfg.Theme,
		"variant":  cfg.Variant,
		"css_vars": vars,
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL("stylesheet")
	}
	return ctx
}
