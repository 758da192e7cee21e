package render

import (
	"context"
)

// Renderer turns a page shell into a byte representation (HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, shell Shell, options RenderOptions) ([]byte, error)
}
