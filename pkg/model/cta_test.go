package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sitegen/pkg/model"
)

func placementIDs(list []model.CTAPlacement) []string {
	out := []string{}
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestRemoveCTACascades(t *testing.T) {
	cfg := sampleConfig()
	p, err := model.RemoveCTA(cfg, "a")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := cfg.Apply(p)

	if _, ok := got.FindCTA("a"); ok {
		t.Fatalf("cta a still in library")
	}
	if diff := cmp.Diff([]string{"h2"}, placementIDs(got.HomeCTAPlacements)); diff != "" {
		t.Fatalf("home mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{}, placementIDs(got.LandingCTAPlacements)); diff != "" {
		t.Fatalf("landing mismatch (-want +got):\n%s", diff)
	}
	want := []model.BlogCTAPlacement{{ID: "b2", CTAID: "b", Position: model.AnchorEndOfPost}}
	if diff := cmp.Diff(want, got.BlogCTAPlacements); diff != "" {
		t.Fatalf("blog mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveCTAUnknown(t *testing.T) {
	if _, err := model.RemoveCTA(sampleConfig(), "zzz"); !errors.Is(err, model.ErrUnknownCTA) {
		t.Fatalf("err = %v, want ErrUnknownCTA", err)
	}
}

func TestMovePlacementSwapsAdjacentEntries(t *testing.T) {
	cfg := sampleConfig()
	p, err := model.MovePlacement(cfg, model.TargetHome, "h2", model.Up)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	got := cfg.Apply(p)
	want := []model.CTAPlacement{
		{ID: "h2", CTAID: "b", Position: 1},
		{ID: "h1", CTAID: "a", Position: 1},
	}
	if diff := cmp.Diff(want, got.HomeCTAPlacements); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}

	p, err = model.MovePlacement(got, model.TargetHome, "h2", model.Up)
	if err != nil {
		t.Fatalf("move at edge: %v", err)
	}
	if !p.Empty() {
		t.Fatalf("moving first entry up should be a no-op")
	}
}

func TestMovePlacementRejectsBlog(t *testing.T) {
	if _, err := model.MovePlacement(sampleConfig(), model.TargetBlog, "b1", model.Down); err == nil {
		t.Fatalf("expected error for blog target")
	}
}

func TestAddPlacementRequiresKnownCTA(t *testing.T) {
	cfg := sampleConfig()
	if _, _, err := model.AddPlacement(cfg, model.TargetLanding, "nope", 0); !errors.Is(err, model.ErrUnknownCTA) {
		t.Fatalf("err = %v, want ErrUnknownCTA", err)
	}
	if _, _, err := model.AddPlacement(cfg, model.TargetLanding, "a", -1); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	p, placement, err := model.AddPlacement(cfg, model.TargetLanding, "b", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if placement.ID == "" {
		t.Fatalf("placement id not generated")
	}
	got := cfg.Apply(p).LandingCTAPlacements
	if len(got) != 2 || got[1] != placement {
		t.Fatalf("landing = %+v", got)
	}
}

func TestAddBlogPlacementValidatesAnchor(t *testing.T) {
	cfg := sampleConfig()
	if _, _, err := model.AddBlogPlacement(cfg, "a", "sidebar"); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	p, placement, err := model.AddBlogPlacement(cfg, "a", model.AnchorMidContent)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := cfg.Apply(p).BlogCTAPlacements; got[len(got)-1] != placement {
		t.Fatalf("blog = %+v", got)
	}
}

func TestAddAndUpdateCTA(t *testing.T) {
	cfg := sampleConfig()
	p, def, err := model.AddCTA(cfg, model.CTADefinition{Name: "New", Text: "Go"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if def.ID == "" {
		t.Fatalf("id not generated")
	}
	cfg = cfg.Apply(p)
	if _, _, err := model.AddCTA(cfg, model.CTADefinition{ID: def.ID}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("duplicate err = %v", err)
	}

	def.Text = "Go now"
	p, err = model.UpdateCTA(cfg, def)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := cfg.Apply(p).FindCTA(def.ID)
	if got.Text != "Go now" {
		t.Fatalf("text = %q", got.Text)
	}
}

func TestRemovePlacement(t *testing.T) {
	cfg := sampleConfig()
	p, err := model.RemovePlacement(cfg, model.TargetBlog, "b1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := cfg.Apply(p).BlogCTAPlacements; len(got) != 1 || got[0].ID != "b2" {
		t.Fatalf("blog = %+v", got)
	}
	if _, err := model.RemovePlacement(cfg, model.TargetHome, "zzz"); !errors.Is(err, model.ErrUnknownPlacement) {
		t.Fatalf("err = %v, want ErrUnknownPlacement", err)
	}
}

func TestPruneDanglingPlacements(t *testing.T) {
	cfg := sampleConfig()
	cfg.HomeCTAPlacements = append(cfg.HomeCTAPlacements, model.CTAPlacement{ID: "h3", CTAID: "ghost", Position: 0})
	cfg.BlogCTAPlacements = append(cfg.BlogCTAPlacements, model.BlogCTAPlacement{ID: "b3", CTAID: "ghost", Position: model.AnchorMidContent})

	p, removed := model.PruneDanglingPlacements(cfg)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	got := cfg.Apply(p)
	if diff := cmp.Diff([]string{"h1", "h2"}, placementIDs(got.HomeCTAPlacements)); diff != "" {
		t.Fatalf("home mismatch (-want +got):\n%s", diff)
	}

	if p, removed := model.PruneDanglingPlacements(got); removed != 0 || !p.Empty() {
		t.Fatalf("second prune removed %d", removed)
	}
}

func TestCTAHref(t *testing.T) {
	tests := []struct {
		def  model.CTADefinition
		want string
	}{
		{model.CTADefinition{AffiliateURL: "https://a.example"}, "https://a.example"},
		{model.CTADefinition{AffiliateURL: "https://a.example", TrackingParams: "tag=x"}, "https://a.example?tag=x"},
		{model.CTADefinition{AffiliateURL: "https://a.example", TrackingParams: "?tag=x"}, "https://a.example?tag=x"},
	}
	for _, tc := range tests {
		if got := tc.def.Href(); got != tc.want {
			t.Fatalf("Href() = %q, want %q", got, tc.want)
		}
	}
}
