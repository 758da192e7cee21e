package render

import (
	"context"
	"encoding/json"
)

// JSONRendererName is the registry name of JSONRenderer.
const JSONRendererName = "json"

// JSONRenderer emits the shell itself, for tooling that builds its own markup.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

func (JSONRenderer) Name() string        { return JSONRendererName }
func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(_ context.Context, shell Shell, options RenderOptions) ([]byte, error) {
	shell = shell.Prefill(options.Values)
	return json.MarshalIndent(shell, "", "  ")
}
