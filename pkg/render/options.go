package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carries per-request presentation settings that are not part of
// the TemplateConfig.
type RenderOptions struct {
	// Title overrides seo.defaultTitle for the document title.
	Title string
	// Fragment renders only the page body, without the surrounding document.
	Fragment bool
	// Indent pretty-prints structured output formats.
	Indent bool
	// Theme supplies design tokens and CSS variables resolved by go-theme.
	Theme *theme.RendererConfig
}
