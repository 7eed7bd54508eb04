package sitegen

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen/pkg/render"
)

func TestEmbeddedTemplatesContainsPage(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tmpl")
	if err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Fatalf("expected page template to be a full document")
	}
}

func TestEmbeddedTemplatesCoverSectionTypes(t *testing.T) {
	for _, sectionType := range []string{"hero", "blog-grid", "categories", "categories-bar", "sidebar", "newsletter", "footer", "featured-products", "latest-article", "trust-badges", "search-bar", "reviews"} {
		if _, err := fs.Stat(EmbeddedTemplates(), "templates/sections/"+sectionType+".tmpl"); err != nil {
			t.Fatalf("missing template for %s: %v", sectionType, err)
		}
	}
}

func TestPlanDefaultDocument(t *testing.T) {
	plan := Plan(Default())
	if len(plan) != 1 || plan[0].Kind != render.KindCTASlot || plan[0].Slot != 0 {
		t.Fatalf("default plan = %+v, want a single empty slot", plan)
	}
}

func TestDecodeAndGenerate(t *testing.T) {
	cfg, err := Decode([]byte(`{"sections":[{"type":"hero","config":{"heading":"Hi there"},"order":1}],"ctaLibrary":[],"homeCtaPlacements":[],"blogCtaPlacements":[],"landingCtaPlacements":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := GenerateHTML(context.Background(), cfg, render.PageHome, RenderOptions{Fragment: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Hi there") {
		t.Fatalf("expected hero heading in output:\n%s", out)
	}
}

func TestNewStoreDefaultsToMemory(t *testing.T) {
	s := NewStore(nil)
	id, err := s.Save(context.Background(), "Demo", Default())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" || s.ProjectID() != id {
		t.Fatalf("expected bound project id, got %q", s.ProjectID())
	}
}
