package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	return s.selection, s.err
}

func TestThemeConfig_VariantOverrides(t *testing.T) {
	cfg := ThemeConfig(&theme.Selection{Theme: "verisure", Variant: "dark", Manifest: DefaultManifest()})
	if cfg == nil {
		t.Fatalf("expected config")
	}
	if cfg.Tokens["ink"] != "#f9fafb" || cfg.Tokens["brand"] != DefaultTokens["brand"] {
		t.Fatalf("variant tokens not merged: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--surface"] != "#111827" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/verisure.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
}

func TestThemeConfig_Nil(t *testing.T) {
	if ThemeConfig(nil) != nil || ThemeConfig(&theme.Selection{}) != nil {
		t.Fatalf("expected nil config without a manifest")
	}
}

func TestSelectTheme(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{Theme: "verisure", Manifest: DefaultManifest()}}
	cfg, err := SelectTheme(selector, "verisure", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if diff := cmp.Diff([][2]string{{"verisure", ""}}, selector.calls); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}
	if cfg.Theme != "verisure" {
		t.Fatalf("unexpected theme %q", cfg.Theme)
	}

	if _, err := SelectTheme(&stubThemeSelector{err: errors.New("no theme")}, "x", ""); err == nil {
		t.Fatalf("expected selector error")
	}
	if _, err := SelectTheme(nil, "x", ""); err == nil {
		t.Fatalf("expected nil selector error")
	}
}

func TestManifestSelector(t *testing.T) {
	acme := &theme.Manifest{Name: "acme", Version: "1.0.0", Tokens: map[string]string{"brand": "#654321"}}
	selector, err := NewManifestSelector(DefaultManifest(), acme)
	if err != nil {
		t.Fatalf("selector: %v", err)
	}

	sel, err := selector.Select("", "dark")
	if err != nil || sel.Theme != "verisure" || sel.Variant != "dark" {
		t.Fatalf("fallback selection: %+v err %v", sel, err)
	}
	sel, err = selector.Select("acme", "dark")
	if err != nil || sel.Variant != "" {
		t.Fatalf("unknown variant should fall back to base: %+v err %v", sel, err)
	}
	if _, err := selector.Select("nope", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
	if _, err := NewManifestSelector(acme, acme); err == nil {
		t.Fatalf("expected duplicate manifest error")
	}
}

func TestDefaultManifestRegisters(t *testing.T) {
	registry := theme.NewRegistry()
	if err := registry.Register(DefaultManifest()); err != nil {
		t.Fatalf("register manifest: %v", err)
	}
}

func TestOverrideTokens(t *testing.T) {
	base := ThemeConfig(&theme.Selection{Manifest: DefaultManifest()})
	got := OverrideTokens(base, map[string]string{"brand": "#000000"})

	if got.Tokens["brand"] != "#000000" || got.CSSVars["--brand"] != "#000000" {
		t.Fatalf("override not applied: %v %v", got.Tokens, got.CSSVars)
	}
	if base.Tokens["brand"] != DefaultTokens["brand"] {
		t.Fatalf("base config was mutated: %v", base.Tokens)
	}
	if OverrideTokens(base, nil) != base {
		t.Fatalf("expected the same config without overrides")
	}
}
