// Package sitegen is the convenience entry point for building, planning and
// rendering affiliate site templates. The sub-packages carry the full API;
// this package wires their defaults together.
package sitegen

import (
	"context"

	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/orchestrator"
	"github.com/goliatone/go-sitegen/pkg/persistence"
	"github.com/goliatone/go-sitegen/pkg/persistence/memory"
	"github.com/goliatone/go-sitegen/pkg/render"
	"github.com/goliatone/go-sitegen/pkg/store"
)

// TemplateConfig aliases model.TemplateConfig for callers that only need the
// top-level package.
type TemplateConfig = model.TemplateConfig

// RenderOptions describes per-request presentation overrides.
type RenderOptions = render.RenderOptions

// NewStore returns a ConfigStore over p. A nil p keeps projects in memory.
func NewStore(p persistence.Store, options ...store.Option) *store.ConfigStore {
	if p == nil {
		p = memory.New()
	}
	return store.New(p, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Default returns a fresh default document.
func Default() TemplateConfig {
	return model.Default()
}

// Decode parses and validates a JSON or YAML document.
func Decode(data []byte) (TemplateConfig, error) {
	return model.Decode(data)
}

// Plan returns the ordered section and CTA-slot instructions for the home
// page.
func Plan(cfg TemplateConfig) []render.Instruction {
	return render.Plan(cfg, render.PageHome)
}

// GenerateHTML renders page of cfg with the HTML preview renderer.
func GenerateHTML(ctx context.Context, cfg TemplateConfig, page render.Page, options RenderOptions) ([]byte, error) {
	return orchestrator.New().Generate(ctx, orchestrator.Request{
		Config:        &cfg,
		Page:          page,
		Renderer:      "html",
		RenderOptions: options,
	})
}
