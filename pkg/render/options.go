package render

import (
	"time"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data that renderers use to dress a shell
// without changing its structure.
type RenderOptions struct {
	// Theme supplies tokens, CSS variables and asset URLs. Nil renders with the
	// renderer's built-in defaults.
	Theme *theme.RendererConfig
	// Script is the URL of the controller bundle loaded by the page. Empty
	// leaves the page inert.
	Script string
	// RuntimeScript is the URL of the loader that starts Script (wasm_exec.js
	// for the WebAssembly build).
	RuntimeScript string
	// RedirectDelay, when set, is published on the page for the controller's
	// post-login navigation. Nil leaves the controller default.
	RedirectDelay *time.Duration
	// Values pre-populates named form controls, keyed by landmark then field.
	Values map[string]map[string]string
}
