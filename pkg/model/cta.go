package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnknownCTA is returned when an edit references a CTA id missing from
	// the library.
	ErrUnknownCTA = errors.New("model: cta not found")
	// ErrUnknownPlacement is returned when an edit references a placement id
	// missing from the targeted sequence.
	ErrUnknownPlacement = errors.New("model: placement not found")
)

// PlacementTarget selects one of the three placement sequences.
type PlacementTarget string

const (
	TargetHome    PlacementTarget = "home"
	TargetLanding PlacementTarget = "landing"
	TargetBlog    PlacementTarget = "blog"
)

// ParsePlacementTarget accepts "home", "landing" or "blog".
func ParsePlacementTarget(raw string) (PlacementTarget, error) {
	switch target := PlacementTarget(strings.ToLower(strings.TrimSpace(raw))); target {
	case TargetHome, TargetLanding, TargetBlog:
		return target, nil
	default:
		return "", fmt.Errorf("model: unknown placement target %q", raw)
	}
}

// Href builds the outbound link, appending tracking params as the query string.
func (c CTADefinition) Href() string {
	params := strings.TrimPrefix(strings.TrimSpace(c.TrackingParams), "?")
	if params == "" {
		return c.AffiliateURL
	}
	return c.AffiliateURL + "?" + params
}

// FindCTA looks up a library entry by id.
func (c TemplateConfig) FindCTA(id string) (CTADefinition, bool) {
	for _, cta := range c.CTALibrary {
		if cta.ID == id {
			return cta, true
		}
	}
	return CTADefinition{}, false
}

// SlotPlacements returns the integer-slot placements for the home or landing
// page. Other targets yield nil.
func (c TemplateConfig) SlotPlacements(target PlacementTarget) []CTAPlacement {
	switch target {
	case TargetHome:
		return c.HomeCTAPlacements
	case TargetLanding:
		return c.LandingCTAPlacements
	default:
		return nil
	}
}

func newID() string {
	return uuid.NewString()
}

// AddCTA appends def to the library, generating an id when def.ID is empty.
func AddCTA(cfg TemplateConfig, def CTADefinition) (Partial, CTADefinition, error) {
	def.ID = strings.TrimSpace(def.ID)
	if def.ID == "" {
		def.ID = newID()
	}
	if _, exists := cfg.FindCTA(def.ID); exists {
		return Partial{}, CTADefinition{}, &ValidationError{Issues: []Issue{{
			Path:    "ctaLibrary",
			Message: fmt.Sprintf("cta id %q already exists", def.ID),
		}}}
	}
	library := append(cloneSlice(cfg.CTALibrary), def)
	return Partial{CTALibrary: &library}, def, nil
}

// UpdateCTA replaces the library entry with the same id.
func UpdateCTA(cfg TemplateConfig, def CTADefinition) (Partial, error) {
	library := cloneSlice(cfg.CTALibrary)
	for i := range library {
		if library[i].ID == def.ID {
			library[i] = def
			return Partial{CTALibrary: &library}, nil
		}
	}
	return Partial{}, fmt.Errorf("%w: %q", ErrUnknownCTA, def.ID)
}

// RemoveCTA deletes a library entry and every home, landing and blog placement
// that references it.
func RemoveCTA(cfg TemplateConfig, id string) (Partial, error) {
	library := make([]CTADefinition, 0, len(cfg.CTALibrary))
	found := false
	for _, cta := range cfg.CTALibrary {
		if cta.ID == id {
			found = true
			continue
		}
		library = append(library, cta)
	}
	if !found {
		return Partial{}, fmt.Errorf("%w: %q", ErrUnknownCTA, id)
	}

	home := dropSlotPlacements(cfg.HomeCTAPlacements, func(p CTAPlacement) bool { return p.CTAID == id })
	landing := dropSlotPlacements(cfg.LandingCTAPlacements, func(p CTAPlacement) bool { return p.CTAID == id })
	blog := dropBlogPlacements(cfg.BlogCTAPlacements, func(p BlogCTAPlacement) bool { return p.CTAID == id })

	return Partial{
		CTALibrary:           &library,
		HomeCTAPlacements:    &home,
		LandingCTAPlacements: &landing,
		BlogCTAPlacements:    &blog,
	}, nil
}

// PruneDanglingPlacements removes placements whose ctaId does not resolve. It
// is never applied implicitly; loaders may opt in.
func PruneDanglingPlacements(cfg TemplateConfig) (Partial, int) {
	known := make(map[string]struct{}, len(cfg.CTALibrary))
	for _, cta := range cfg.CTALibrary {
		known[cta.ID] = struct{}{}
	}
	dangling := func(ctaID string) bool {
		_, ok := known[ctaID]
		return !ok
	}

	home := dropSlotPlacements(cfg.HomeCTAPlacements, func(p CTAPlacement) bool { return dangling(p.CTAID) })
	landing := dropSlotPlacements(cfg.LandingCTAPlacements, func(p CTAPlacement) bool { return dangling(p.CTAID) })
	blog := dropBlogPlacements(cfg.BlogCTAPlacements, func(p BlogCTAPlacement) bool { return dangling(p.CTAID) })

	removed := len(cfg.HomeCTAPlacements) - len(home) +
		len(cfg.LandingCTAPlacements) - len(landing) +
		len(cfg.BlogCTAPlacements) - len(blog)
	if removed == 0 {
		return Partial{}, 0
	}
	return Partial{
		HomeCTAPlacements:    &home,
		LandingCTAPlacements: &landing,
		BlogCTAPlacements:    &blog,
	}, removed
}

func dropSlotPlacements(in []CTAPlacement, drop func(CTAPlacement) bool) []CTAPlacement {
	out := make([]CTAPlacement, 0, len(in))
	for _, placement := range in {
		if drop(placement) {
			continue
		}
		out = append(out, placement)
	}
	return out
}

func dropBlogPlacements(in []BlogCTAPlacement, drop func(BlogCTAPlacement) bool) []BlogCTAPlacement {
	out := make([]BlogCTAPlacement, 0, len(in))
	for _, placement := range in {
		if drop(placement) {
			continue
		}
		out = append(out, placement)
	}
	return out
}

// AddPlacement appends a slot placement to the home or landing sequence.
func AddPlacement(cfg TemplateConfig, target PlacementTarget, ctaID string, slot int) (Partial, CTAPlacement, error) {
	if _, ok := cfg.FindCTA(ctaID); !ok {
		return Partial{}, CTAPlacement{}, fmt.Errorf("%w: %q", ErrUnknownCTA, ctaID)
	}
	if slot < 0 {
		return Partial{}, CTAPlacement{}, &ValidationError{Issues: []Issue{{
			Path:    string(target) + "CtaPlacements.position",
			Message: "slot position must not be negative",
		}}}
	}
	placement := CTAPlacement{ID: newID(), CTAID: ctaID, Position: slot}
	switch target {
	case TargetHome:
		list := append(cloneSlice(cfg.HomeCTAPlacements), placement)
		return Partial{HomeCTAPlacements: &list}, placement, nil
	case TargetLanding:
		list := append(cloneSlice(cfg.LandingCTAPlacements), placement)
		return Partial{LandingCTAPlacements: &list}, placement, nil
	default:
		return Partial{}, CTAPlacement{}, fmt.Errorf("model: target %q has no integer slots", target)
	}
}

// AddBlogPlacement appends a placement at a named blog anchor.
func AddBlogPlacement(cfg TemplateConfig, ctaID string, anchor BlogAnchor) (Partial, BlogCTAPlacement, error) {
	if _, ok := cfg.FindCTA(ctaID); !ok {
		return Partial{}, BlogCTAPlacement{}, fmt.Errorf("%w: %q", ErrUnknownCTA, ctaID)
	}
	if !anchor.Valid() {
		return Partial{}, BlogCTAPlacement{}, &ValidationError{Issues: []Issue{{
			Path:    "blogCtaPlacements.position",
			Message: fmt.Sprintf("unknown anchor %q", anchor),
		}}}
	}
	placement := BlogCTAPlacement{ID: newID(), CTAID: ctaID, Position: anchor}
	list := append(cloneSlice(cfg.BlogCTAPlacements), placement)
	return Partial{BlogCTAPlacements: &list}, placement, nil
}

// RemovePlacement deletes a placement by id from the targeted sequence.
func RemovePlacement(cfg TemplateConfig, target PlacementTarget, id string) (Partial, error) {
	switch target {
	case TargetHome, TargetLanding:
		current := cfg.SlotPlacements(target)
		list := dropSlotPlacements(current, func(p CTAPlacement) bool { return p.ID == id })
		if len(list) == len(current) {
			return Partial{}, fmt.Errorf("%w: %q", ErrUnknownPlacement, id)
		}
		if target == TargetHome {
			return Partial{HomeCTAPlacements: &list}, nil
		}
		return Partial{LandingCTAPlacements: &list}, nil
	case TargetBlog:
		list := dropBlogPlacements(cfg.BlogCTAPlacements, func(p BlogCTAPlacement) bool { return p.ID == id })
		if len(list) == len(cfg.BlogCTAPlacements) {
			return Partial{}, fmt.Errorf("%w: %q", ErrUnknownPlacement, id)
		}
		return Partial{BlogCTAPlacements: &list}, nil
	default:
		return Partial{}, fmt.Errorf("model: unknown placement target %q", target)
	}
}

// MovePlacement swaps a home or landing placement with its adjacent array
// entry. Positions are untouched; only the relative order of entries changes.
// Moving past either end is a no-op.
func MovePlacement(cfg TemplateConfig, target PlacementTarget, id string, dir Direction) (Partial, error) {
	if target != TargetHome && target != TargetLanding {
		return Partial{}, fmt.Errorf("model: target %q does not support moves", target)
	}
	list := cloneSlice(cfg.SlotPlacements(target))
	pos := -1
	for i, placement := range list {
		if placement.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return Partial{}, fmt.Errorf("%w: %q", ErrUnknownPlacement, id)
	}
	next := pos + int(dir)
	if next < 0 || next >= len(list) {
		return Partial{}, nil
	}
	list[pos], list[next] = list[next], list[pos]
	if target == TargetHome {
		return Partial{HomeCTAPlacements: &list}, nil
	}
	return Partial{LandingCTAPlacements: &list}, nil
}
