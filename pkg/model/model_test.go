package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sitegen/pkg/model"
)

func sampleConfig() model.TemplateConfig {
	cfg := model.Default()
	cfg.Sections = []model.SectionInstance{
		{Type: model.SectionHero, Config: map[string]any{"heading": "Welcome"}, Order: 0},
		{Type: model.SectionBlogGrid, Config: map[string]any{}, Order: 1},
		{Type: model.SectionNewsletter, Config: map[string]any{}, Order: 2},
	}
	cfg.CTALibrary = []model.CTADefinition{
		{ID: "a", Name: "Shop A", Text: "Buy A", AffiliateURL: "https://a.example", TrackingParams: "tag=x"},
		{ID: "b", Name: "Shop B", Text: "Buy B", AffiliateURL: "https://b.example"},
	}
	cfg.HomeCTAPlacements = []model.CTAPlacement{
		{ID: "h1", CTAID: "a", Position: 1},
		{ID: "h2", CTAID: "b", Position: 1},
	}
	cfg.LandingCTAPlacements = []model.CTAPlacement{{ID: "l1", CTAID: "a", Position: 0}}
	cfg.BlogCTAPlacements = []model.BlogCTAPlacement{
		{ID: "b1", CTAID: "a", Position: model.AnchorAfterIntro},
		{ID: "b2", CTAID: "b", Position: model.AnchorEndOfPost},
	}
	return cfg
}

func TestRoundTripPreservesDocument(t *testing.T) {
	want := sampleConfig()
	enabled := false
	want.Sections[2].Enabled = &enabled
	want.Typography = &model.Typography{HeadingFont: "Playfair Display", BodyFont: "Inter"}
	want.SEO = &model.SEO{DefaultTitle: "Peak", OGImage: "https://cdn.example/og.png"}

	data, err := model.Encode(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := model.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAcceptsYAML(t *testing.T) {
	doc := []byte(`
navbar:
  enabled: true
  siteName: Peak Picks
  logoType: text
  logoImage: ""
  navItems: []
  showSearch: false
sections:
  - type: hero
    order: 0
    config:
      heading: Hello
ctaLibrary: []
homeCtaPlacements: []
blogCtaPlacements: []
landingCtaPlacements: []
`)
	cfg, err := model.Decode(doc)
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if cfg.Navbar == nil || cfg.Navbar.SiteName != "Peak Picks" {
		t.Fatalf("navbar = %+v, want siteName Peak Picks", cfg.Navbar)
	}
	if len(cfg.Sections) != 1 || cfg.Sections[0].Config["heading"] != "Hello" {
		t.Fatalf("sections = %+v", cfg.Sections)
	}
}

func TestDecodePartialFromYAML(t *testing.T) {
	p, err := model.DecodePartial([]byte(`
seo:
  defaultTitle: Best Tents
  defaultDescription: Tested outdoors
  ogImage: ""
`))
	if err != nil {
		t.Fatalf("decode partial: %v", err)
	}
	if diff := cmp.Diff([]string{"seo"}, p.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if p.SEO.DefaultTitle != "Best Tents" {
		t.Fatalf("defaultTitle = %q", p.SEO.DefaultTitle)
	}

	if _, err := model.DecodePartial([]byte("  \n")); err == nil {
		t.Fatal("expected error for empty partial")
	}
	if _, err := model.DecodePartial([]byte(`{"seo": {"title": "x"}}`)); err == nil {
		t.Fatal("expected error for unknown nested key")
	}
	stamped, err := model.DecodePartial([]byte(`{"generatedAt": "2024-05-01T10:00:00Z"}`))
	if err != nil {
		t.Fatalf("decode stamped partial: %v", err)
	}
	if !stamped.Empty() {
		t.Fatalf("stamped partial keys = %v, want none", stamped.Keys())
	}
}

func TestDecodeIgnoresUnknownTopLevelKeys(t *testing.T) {
	doc := []byte(`{
  "generatedAt": "2024-05-01T10:00:00Z",
  "builderVersion": 2,
  "sections": [{"type": "hero", "config": {}, "order": 0}],
  "ctaLibrary": [{"id": "c1", "name": "Deal", "text": "Buy", "affiliateUrl": "https://shop.example", "affiliateId": "", "trackingParams": ""}],
  "homeCtaPlacements": [{"id": "p1", "ctaId": "c1", "position": 1, "sectionId": "hero"}],
  "blogCtaPlacements": [],
  "landingCtaPlacements": []
}`)
	cfg, extras, err := model.DecodeWithExtras(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"builderVersion", "generatedAt"}, extras); diff != "" {
		t.Fatalf("extras mismatch (-want +got):\n%s", diff)
	}
	want := []model.CTAPlacement{{ID: "p1", CTAID: "c1", Position: 1, SectionID: "hero"}}
	if diff := cmp.Diff(want, cfg.HomeCTAPlacements); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}

	encoded, err := model.Encode(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(encoded), `"sectionId": "hero"`) {
		t.Fatalf("sectionId lost on encode:\n%s", encoded)
	}
}

func TestDecodeKeepsLargeIntegers(t *testing.T) {
	doc := []byte(`{"sections": [{"type": "carousel", "config": {"seed": 9007199254740993}, "order": 0}]}`)
	cfg, err := model.Decode(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := cfg.Sections[0].Config["seed"]; got != json.Number("9007199254740993") {
		t.Fatalf("seed = %#v, want json.Number 9007199254740993", got)
	}
	encoded, err := model.Encode(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(encoded), "9007199254740993") {
		t.Fatalf("large integer changed on encode:\n%s", encoded)
	}
}

func TestCloneDetachesNestedValues(t *testing.T) {
	cfg := sampleConfig()
	cfg.Sections[0].Config["images"] = []any{"a.png"}
	clone := cfg.Clone()

	clone.Navbar.NavItems[0].Label = "changed"
	clone.Sections[0].Config["heading"] = "changed"
	clone.Sections[0].Config["images"].([]any)[0] = "b.png"
	clone.CTALibrary[0].Text = "changed"

	if cfg.Navbar.NavItems[0].Label != "Home" {
		t.Fatalf("navbar aliased")
	}
	if cfg.Sections[0].Config["heading"] != "Welcome" {
		t.Fatalf("section config aliased")
	}
	if cfg.Sections[0].Config["images"].([]any)[0] != "a.png" {
		t.Fatalf("nested slice aliased")
	}
	if cfg.CTALibrary[0].Text != "Buy A" {
		t.Fatalf("cta library aliased")
	}
}

func TestApplyReplacesNamedKeysOnly(t *testing.T) {
	base := sampleConfig()
	nav := model.NavbarConfig{SiteName: "Other", LogoType: model.LogoTypeImage}
	sections := []model.SectionInstance{{Type: model.SectionFooter, Order: 0}}

	got := base.Apply(model.Partial{Navbar: &nav, Sections: &sections})

	want := base.Clone()
	want.Navbar = &model.NavbarConfig{SiteName: "Other", LogoType: model.LogoTypeImage}
	want.Sections = []model.SectionInstance{{Type: model.SectionFooter, Order: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("apply mismatch (-want +got):\n%s", diff)
	}

	sections[0].Type = "mutated"
	if got.Sections[0].Type != model.SectionFooter {
		t.Fatalf("applied config aliases caller slice")
	}
}

func TestApplyDoesNotDeepMerge(t *testing.T) {
	base := sampleConfig()
	nav := model.NavbarConfig{SiteName: "Only name"}
	got := base.Apply(model.Partial{Navbar: &nav})
	if got.Navbar.NavItems != nil {
		t.Fatalf("navItems = %v, want nil after wholesale replace", got.Navbar.NavItems)
	}
	if got.Navbar.ShowSearch {
		t.Fatalf("showSearch survived wholesale replace")
	}
}

func TestPartialKeysAndJSON(t *testing.T) {
	var p model.Partial
	if err := json.Unmarshal([]byte(`{"seo":{"defaultTitle":"x"},"homeCtaPlacements":[]}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff([]string{"homeCtaPlacements", "seo"}, p.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if p.Empty() {
		t.Fatalf("partial reported empty")
	}
	if !(model.Partial{}).Empty() {
		t.Fatalf("zero partial not empty")
	}
}

func TestCombinePrefersLaterKeys(t *testing.T) {
	first := model.SEO{DefaultTitle: "first"}
	second := model.SEO{DefaultTitle: "second"}
	typo := model.Typography{BodyFont: "Lora"}
	got := model.Partial{SEO: &first, Typography: &typo}.Combine(model.Partial{SEO: &second})
	if got.SEO.DefaultTitle != "second" || got.Typography.BodyFont != "Lora" {
		t.Fatalf("combine = %+v", got)
	}
}

func TestFontStylesheetURL(t *testing.T) {
	cfg := model.Default()
	if got, want := cfg.FontStylesheetURL(), "https://fonts.googleapis.com/css2?family=Inter:wght@400;700&display=swap"; got != want {
		t.Fatalf("default url = %q, want %q", got, want)
	}
	cfg.Typography = &model.Typography{HeadingFont: "Playfair Display", BodyFont: "Open Sans"}
	want := "https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;700&family=Open+Sans:wght@400;700&display=swap"
	if got := cfg.FontStylesheetURL(); got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}
