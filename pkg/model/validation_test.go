package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sitegen/pkg/model"
)

func TestValidateAcceptsDefaultAndSample(t *testing.T) {
	if err := model.Default().Validate(); err != nil {
		t.Fatalf("default invalid: %v", err)
	}
	if err := sampleConfig().Validate(); err != nil {
		t.Fatalf("sample invalid: %v", err)
	}
}

func TestValidateAllowsDanglingPlacements(t *testing.T) {
	cfg := sampleConfig()
	cfg.HomeCTAPlacements = append(cfg.HomeCTAPlacements, model.CTAPlacement{ID: "h9", CTAID: "ghost"})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("dangling placement rejected: %v", err)
	}
}

func TestValidateCollectsIssues(t *testing.T) {
	cfg := sampleConfig()
	cfg.Navbar.LogoType = "banner"
	cfg.Sections = append(cfg.Sections, model.SectionInstance{Type: model.SectionHero, Order: 9})
	cfg.CTALibrary = append(cfg.CTALibrary, model.CTADefinition{ID: "a"})
	cfg.HomeCTAPlacements[1].Position = -2
	cfg.BlogCTAPlacements[0].Position = "footer"
	cfg.Pages = &model.PageSettings{EnabledPages: []model.PageID{"faq"}}

	err := cfg.Validate()
	if !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err is %T, want *ValidationError", err)
	}
	var paths []string
	for _, issue := range verr.Issues {
		paths = append(paths, issue.Path)
	}
	want := []string{
		"navbar.logoType",
		"sections[3].type",
		"ctaLibrary[2].id",
		"homeCtaPlacements[1].position",
		"blogCtaPlacements[0].position",
		"pages.enabledPages[0]",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("issue paths mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateReportsSectionShapeErrors(t *testing.T) {
	cfg := sampleConfig()
	cfg.Sections[0].Config = map[string]any{"overlayOpacity": "dark"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "sections[0].config") {
		t.Fatalf("err = %v, want sections[0].config issue", err)
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"bad json":     `{"navbar": `,
		"unknown key":  `{"navbar": {"colour": "red"}}`,
		"wrong type":   `{"sections": "hero"}`,
		"invalid yaml": "navbar: [",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := model.Decode([]byte(input)); !errors.Is(err, model.ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}
