package render

import (
	"context"
)

// Renderer converts a page plan into a byte representation (JSON, HTML, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, plan PagePlan, options RenderOptions) ([]byte, error)
}
