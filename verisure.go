// Package verisure is the entry point to the certificate app controller: the
// API contract, page shells and the API client.
package verisure

import (
	"context"
	"fmt"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/render"
	"github.com/goliatone/go-verisure/pkg/renderers/html"
)

// RenderOptions describes per-request overrides such as prefilled values.
type RenderOptions = render.RenderOptions

// Shell aliases render.Shell for callers rendering pages themselves.
type Shell = render.Shell

// Contract returns the embedded API contract.
func Contract() (*contract.Contract, error) {
	return contract.Default()
}

// LoadContract parses an OpenAPI document in place of the embedded one.
func LoadContract(ctx context.Context, raw []byte) (*contract.Contract, error) {
	return contract.Parse(ctx, raw)
}

// NewClient builds an API client rooted at baseURL.
func NewClient(baseURL string, options ...api.Option) (*api.Client, error) {
	return api.NewClient(baseURL, options...)
}

// BuildShell assembles the shell of a page kind from the embedded contract.
func BuildShell(kind page.Kind) (Shell, error) {
	c, err := contract.Default()
	if err != nil {
		return Shell{}, err
	}
	return render.BuildShell(kind, c)
}

// RenderPage renders the page kind as an HTML document with the default
// theme. It is the simplest entry point for callers that just want HTML.
func RenderPage(ctx context.Context, kind page.Kind, options RenderOptions) ([]byte, error) {
	shell, err := BuildShell(kind)
	if err != nil {
		return nil, err
	}
	renderer, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("verisure: html renderer: %w", err)
	}
	return renderer.Render(ctx, shell, options)
}
