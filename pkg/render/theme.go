package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultTokens are the design tokens used when no theme is selected.
var DefaultTokens = map[string]string{
	"brand":      "#1d4ed8",
	"ink":        "#111827",
	"surface":    "#ffffff",
	"success":    "#15803d",
	"error":      "#b91c1c",
	"warning":    "#b45309",
	"info":       "#0369a1",
	"font-stack": "system-ui, sans-serif",
}

// DefaultManifest is the built-in theme.
func DefaultManifest() *theme.Manifest {
	tokens := make(map[string]string, len(DefaultTokens))
	for k, v := range DefaultTokens {
		tokens[k] = v
	}
	return &theme.Manifest{
		Name:    "verisure",
		Version: "1.0.0",
		Tokens:  tokens,
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "verisure.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"ink":     "#f9fafb",
					"surface": "#111827",
				},
			},
		},
	}
}

// ManifestSelector selects among a fixed set of manifests. An empty name
// picks the fallback manifest; an unknown variant falls back to the base
// tokens.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes manifests by name. The first one is the
// fallback.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			return nil, errors.New("render: theme manifest needs a name")
		}
		if _, dup := s.manifests[m.Name]; dup {
			return nil, fmt.Errorf("render: theme %q registered twice", m.Name)
		}
		if s.fallback == "" {
			s.fallback = m.Name
		}
		s.manifests[m.Name] = m
	}
	if s.fallback == "" {
		return nil, errors.New("render: at least one theme manifest is required")
	}
	return s, nil
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.fallback
	}
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	if _, ok := m.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// SelectTheme resolves name/variant through selector and derives a renderer
// configuration from the selection.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q/%q: %w", name, variant, err)
	}
	return ThemeConfig(selection), nil
}

// ThemeConfig flattens a selection into tokens, CSS variables and an asset
// resolver. Variant values override the manifest's.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := merge(manifest.Tokens, variant.Tokens)
	partials := merge(manifest.Templates, variant.Templates)
	files := merge(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	name := selection.Theme
	if name == "" {
		name = manifest.Name
	}
	return &theme.RendererConfig{
		Theme:    name,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

func merge(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// OverrideTokens returns a copy of cfg with tokens layered over its own.
func OverrideTokens(cfg *theme.RendererConfig, tokens map[string]string) *theme.RendererConfig {
	if cfg == nil || len(tokens) == 0 {
		return cfg
	}
	out := *cfg
	out.Tokens = merge(cfg.Tokens, tokens)
	out.CSSVars = merge(cfg.CSSVars, nil)
	for key, value := range tokens {
		out.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	return &out
}
