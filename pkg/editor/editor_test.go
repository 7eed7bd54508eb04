package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sitegen/pkg/model"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	confirm   []bool
	infos     []string

	inputPos   int
	selectPos  int
	multiPos   int
	confirmPos int

	prompts []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestEditNavbarImageLogo(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{true, false},
		inputs:    []string{"  Trail Notes ", "https://cdn.example.com/logo.png"},
		selectIdx: []int{1},
	}
	cfg := model.Default()

	partial, err := New(WithPromptDriver(driver)).EditNavbar(context.Background(), cfg)
	if err != nil {
		t.Fatalf("edit navbar: %v", err)
	}
	if diff := cmp.Diff([]string{"navbar"}, partial.Keys()); diff != "" {
		t.Fatalf("partial keys mismatch (-want +got):\n%s", diff)
	}

	want := *cfg.Navbar
	want.SiteName = "Trail Notes"
	want.LogoType = model.LogoTypeImage
	want.LogoImage = "https://cdn.example.com/logo.png"
	want.ShowSearch = false
	if diff := cmp.Diff(want, *partial.Navbar); diff != "" {
		t.Fatalf("navbar mismatch (-want +got):\n%s", diff)
	}
}

func TestEditNavbarTextLogoSkipsImagePrompt(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{true, true},
		inputs:    []string{"My Site"},
		selectIdx: []int{0},
	}
	if _, err := New(WithPromptDriver(driver)).EditNavbar(context.Background(), model.Default()); err != nil {
		t.Fatalf("edit navbar: %v", err)
	}
	want := []string{"Show the navbar?", "Site name", "Logo type", "Show search?"}
	if diff := cmp.Diff(want, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestEditNavbarRejectsBlankName(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}, inputs: []string{"   "}}
	_, err := New(WithPromptDriver(driver)).EditNavbar(context.Background(), model.Default())
	if err == nil {
		t.Fatalf("expected validation error for blank site name")
	}
}

func TestEditPagesSyncsNavItems(t *testing.T) {
	// about=0, blog=1, contact=2
	driver := &stubDriver{
		multiIdx: [][]int{{1, 2}},
		confirm:  []bool{true, false},
	}
	cfg := model.Default()

	partial, err := New(WithPromptDriver(driver)).EditPages(context.Background(), cfg)
	if err != nil {
		t.Fatalf("edit pages: %v", err)
	}
	got := cfg.Apply(partial)

	if diff := cmp.Diff([]model.PageID{model.PageBlog, model.PageContact}, got.Pages.EnabledPages); diff != "" {
		t.Fatalf("enabled pages mismatch (-want +got):\n%s", diff)
	}
	wantNav := []model.NavItem{
		{ID: model.HomeNavID, Label: "Home", Path: "/"},
		{ID: "nav-blog", Label: "Blog", Path: "/blog"},
	}
	if diff := cmp.Diff(wantNav, got.Navbar.NavItems); diff != "" {
		t.Fatalf("nav items mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"Enabled pages", "Show blog in the navbar?", "Show contact in the navbar?"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestEditPagesDisablesAll(t *testing.T) {
	cfg := model.Default()
	p, err := model.SetPageEnabled(cfg, model.PageAbout, true)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	cfg = cfg.Apply(p)

	driver := &stubDriver{multiIdx: [][]int{nil}}
	partial, err := New(WithPromptDriver(driver)).EditPages(context.Background(), cfg)
	if err != nil {
		t.Fatalf("edit pages: %v", err)
	}
	got := cfg.Apply(partial)
	if len(got.Pages.EnabledPages) != 0 {
		t.Fatalf("expected no enabled pages, got %v", got.Pages.EnabledPages)
	}
	if len(got.Navbar.NavItems) != 1 || got.Navbar.NavItems[0].ID != model.HomeNavID {
		t.Fatalf("expected only the home item, got %v", got.Navbar.NavItems)
	}
}

func TestNewCTAWithHomePlacement(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Amazon", "Check price", "https://amazon.example/dp/B01", "peak-20", "tag=peak-20", "2"},
		selectIdx: []int{1},
	}
	cfg := model.Default()

	partial, def, err := New(WithPromptDriver(driver)).NewCTA(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new cta: %v", err)
	}
	if def.ID == "" {
		t.Fatalf("expected generated id")
	}
	if len(driver.infos) != 1 {
		t.Fatalf("infos = %v", driver.infos)
	}
	if def.Href() != "https://amazon.example/dp/B01?tag=peak-20" {
		t.Fatalf("href = %q", def.Href())
	}

	got := cfg.Apply(partial)
	if diff := cmp.Diff([]model.CTADefinition{def}, got.CTALibrary); diff != "" {
		t.Fatalf("library mismatch (-want +got):\n%s", diff)
	}
	if len(got.HomeCTAPlacements) != 1 {
		t.Fatalf("home placements = %v", got.HomeCTAPlacements)
	}
	placement := got.HomeCTAPlacements[0]
	if placement.CTAID != def.ID || placement.Position != 2 {
		t.Fatalf("placement = %+v", placement)
	}
}

func TestNewCTABlogPlacement(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"REI", "", "/go/rei", "", ""},
		selectIdx: []int{3, 2},
	}
	partial, def, err := New(WithPromptDriver(driver)).NewCTA(context.Background(), model.Default())
	if err != nil {
		t.Fatalf("new cta: %v", err)
	}
	if len(*partial.BlogCTAPlacements) != 1 {
		t.Fatalf("blog placements = %v", *partial.BlogCTAPlacements)
	}
	got := (*partial.BlogCTAPlacements)[0]
	if got.CTAID != def.ID || got.Position != model.AnchorBeforeConclusion {
		t.Fatalf("placement = %+v", got)
	}
}

func TestNewCTAWithoutPlacement(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"REI", "Shop", "https://rei.example/p/1", "", ""},
		selectIdx: []int{0},
	}
	partial, _, err := New(WithPromptDriver(driver)).NewCTA(context.Background(), model.Default())
	if err != nil {
		t.Fatalf("new cta: %v", err)
	}
	if diff := cmp.Diff([]string{"ctaLibrary"}, partial.Keys()); diff != "" {
		t.Fatalf("partial keys mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCTARejectsBadURL(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Amazon", "Buy", "ftp://example.com"}}
	_, _, err := New(WithPromptDriver(driver)).NewCTA(context.Background(), model.Default())
	if !errors.Is(err, errBadLink) {
		t.Fatalf("expected errBadLink, got %v", err)
	}
}

func TestFlowsPropagateAbort(t *testing.T) {
	driver := &abortDriver{}
	_, err := New(WithPromptDriver(driver)).EditNavbar(context.Background(), model.Default())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ stubDriver }

func (abortDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return false, ErrAborted
}

func TestDriverIndexHelpers(t *testing.T) {
	options := []string{"a", "b", "c"}
	if got := indexOf(options, "c"); got != 2 {
		t.Fatalf("indexOf = %d", got)
	}
	if got := indexOf(options, "z"); got != -1 {
		t.Fatalf("indexOf missing = %d", got)
	}
	if diff := cmp.Diff([]int{0, 2}, indicesOf(options, []string{"c", "a"})); diff != "" {
		t.Fatalf("indicesOf mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, defaultsFromIndices(options, []int{1, 7})); diff != "" {
		t.Fatalf("defaultsFromIndices mismatch (-want +got):\n%s", diff)
	}
}
