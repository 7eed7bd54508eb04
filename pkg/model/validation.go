package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches every *ValidationError via errors.Is.
var ErrInvalid = errors.New("model: invalid template config")

// Issue is a single validation failure keyed by a dotted path.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ValidationError aggregates the issues found in a document or edit.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalid) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

type issues []Issue

func (is *issues) add(path, format string, args ...any) {
	*is = append(*is, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the structural invariants of the document. Placements whose
// ctaId does not resolve are not reported here; renderers drop them.
func (c TemplateConfig) Validate() error {
	var found issues

	if nav := c.Navbar; nav != nil {
		switch nav.LogoType {
		case "", LogoTypeText, LogoTypeImage:
		default:
			found.add("navbar.logoType", "unknown logo type %q", nav.LogoType)
		}
	}

	sectionTypes := make(map[string]struct{}, len(c.Sections))
	for i, section := range c.Sections {
		path := fmt.Sprintf("sections[%d]", i)
		if strings.TrimSpace(section.Type) == "" {
			found.add(path+".type", "section type is required")
			continue
		}
		if _, dup := sectionTypes[section.Type]; dup {
			found.add(path+".type", "duplicate section type %q", section.Type)
		}
		sectionTypes[section.Type] = struct{}{}
		if _, err := DecodeSection(section.Type, section.Config); err != nil {
			found.add(path+".config", "%v", err)
		}
	}

	ctaIDs := make(map[string]struct{}, len(c.CTALibrary))
	for i, cta := range c.CTALibrary {
		path := fmt.Sprintf("ctaLibrary[%d]", i)
		if strings.TrimSpace(cta.ID) == "" {
			found.add(path+".id", "cta id is required")
			continue
		}
		if _, dup := ctaIDs[cta.ID]; dup {
			found.add(path+".id", "duplicate cta id %q", cta.ID)
		}
		ctaIDs[cta.ID] = struct{}{}
	}

	validateSlots(&found, "homeCtaPlacements", c.HomeCTAPlacements)
	validateSlots(&found, "landingCtaPlacements", c.LandingCTAPlacements)

	blogIDs := make(map[string]struct{}, len(c.BlogCTAPlacements))
	for i, placement := range c.BlogCTAPlacements {
		path := fmt.Sprintf("blogCtaPlacements[%d]", i)
		checkPlacementID(&found, path, placement.ID, blogIDs)
		if !placement.Position.Valid() {
			found.add(path+".position", "unknown anchor %q", placement.Position)
		}
	}

	if pages := c.Pages; pages != nil {
		seen := make(map[PageID]struct{}, len(pages.EnabledPages))
		for i, page := range pages.EnabledPages {
			path := fmt.Sprintf("pages.enabledPages[%d]", i)
			if !page.Known() {
				found.add(path, "unknown page %q", page)
			}
			if _, dup := seen[page]; dup {
				found.add(path, "duplicate page %q", page)
			}
			seen[page] = struct{}{}
		}
		for page := range pages.PageSettings {
			if !page.Known() {
				found.add("pages.pageSettings."+string(page), "unknown page %q", page)
			}
		}
	}

	if len(found) == 0 {
		return nil
	}
	return &ValidationError{Issues: found}
}

func validateSlots(found *issues, key string, placements []CTAPlacement) {
	ids := make(map[string]struct{}, len(placements))
	for i, placement := range placements {
		path := fmt.Sprintf("%s[%d]", key, i)
		checkPlacementID(found, path, placement.ID, ids)
		if placement.Position < 0 {
			found.add(path+".position", "slot position must not be negative")
		}
	}
}

func checkPlacementID(found *issues, path, id string, seen map[string]struct{}) {
	if strings.TrimSpace(id) == "" {
		found.add(path+".id", "placement id is required")
		return
	}
	if _, dup := seen[id]; dup {
		found.add(path+".id", "duplicate placement id %q", id)
	}
	seen[id] = struct{}{}
}
