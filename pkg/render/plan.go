package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/model"
)

// Page selects which placement sequence feeds the CTA slots.
type Page string

const (
	PageHome    Page = "home"
	PageLanding Page = "landing"
)

// ParsePage accepts "home" or "landing"; blank means home.
func ParsePage(raw string) (Page, error) {
	switch page := Page(strings.ToLower(strings.TrimSpace(raw))); page {
	case "":
		return PageHome, nil
	case PageHome, PageLanding:
		return page, nil
	default:
		return "", fmt.Errorf("render: unknown page %q", raw)
	}
}

func (p Page) target() model.PlacementTarget {
	if p == PageLanding {
		return model.TargetLanding
	}
	return model.TargetHome
}

// Kind tags an Instruction.
type Kind string

const (
	KindSection Kind = "section"
	KindCTASlot Kind = "cta-slot"
)

// Instruction is one entry of a page plan. Section instructions carry Type and
// Props; CTA-slot instructions carry Slot and CTAs.
type Instruction struct {
	Kind  Kind
	Type  string
	Props model.Section
	Slot  int
	CTAs  []model.CTADefinition
}

type sectionJSON struct {
	Kind  Kind          `json:"kind"`
	Type  string        `json:"type"`
	Props model.Section `json:"props"`
}

type slotJSON struct {
	Kind Kind                  `json:"kind"`
	Slot int                   `json:"slot"`
	CTAs []model.CTADefinition `json:"ctas"`
}

// MarshalJSON emits {kind:"section",type,props} or {kind:"cta-slot",slot,ctas}.
func (i Instruction) MarshalJSON() ([]byte, error) {
	if i.Kind == KindCTASlot {
		ctas := i.CTAs
		if ctas == nil {
			ctas = []model.CTADefinition{}
		}
		return json.Marshal(slotJSON{Kind: i.Kind, Slot: i.Slot, CTAs: ctas})
	}
	return json.Marshal(sectionJSON{Kind: KindSection, Type: i.Type, Props: i.Props})
}

// DroppedPlacement records a placement whose ctaId did not resolve.
type DroppedPlacement struct {
	PlacementID string           `json:"placementId"`
	CTAID       string           `json:"ctaId"`
	Slot        int              `json:"slot,omitempty"`
	Anchor      model.BlogAnchor `json:"anchor,omitempty"`
}

// MalformedSection records a section whose config could not be decoded; the
// plan carries the type defaults in its place.
type MalformedSection struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// PagePlan is the full planning result for one page.
type PagePlan struct {
	Page         Page                 `json:"page"`
	Config       model.TemplateConfig `json:"-"`
	Instructions []Instruction        `json:"instructions"`
	Dropped      []DroppedPlacement   `json:"dropped,omitempty"`
	Malformed    []MalformedSection   `json:"malformed,omitempty"`
}

// Sections returns the number of section instructions in the plan.
func (p PagePlan) Sections() int {
	n := 0
	for _, inst := range p.Instructions {
		if inst.Kind == KindSection {
			n++
		}
	}
	return n
}

// Plan returns the ordered instructions for page: slot 0, then each enabled
// section in (order, insertion index) order followed by its slot.
func Plan(cfg model.TemplateConfig, page Page) []Instruction {
	return BuildPlan(cfg, page).Instructions
}

// BuildPlan is Plan plus the dropped-placement and malformed-section report.
func BuildPlan(cfg model.TemplateConfig, page Page) PagePlan {
	if page == "" {
		page = PageHome
	}
	placements := cfg.SlotPlacements(page.target())

	var sections []model.SectionInstance
	for _, section := range cfg.Sections {
		if section.IsEnabled() {
			sections = append(sections, section)
		}
	}
	sections = model.SortedSections(sections)

	plan := PagePlan{
		Page:         page,
		Config:       cfg,
		Instructions: make([]Instruction, 0, 2*len(sections)+1),
	}
	emitSlot := func(slot int) {
		ctas, dropped := ResolveSlot(placements, cfg.CTALibrary, slot)
		plan.Dropped = append(plan.Dropped, dropped...)
		plan.Instructions = append(plan.Instructions, Instruction{Kind: KindCTASlot, Slot: slot, CTAs: ctas})
	}

	emitSlot(0)
	for i, section := range sections {
		props, err := model.DecodeSection(section.Type, section.Config)
		if err != nil {
			plan.Malformed = append(plan.Malformed, MalformedSection{Type: section.Type, Error: err.Error()})
			props = model.DefaultSection(section.Type)
		}
		plan.Instructions = append(plan.Instructions, Instruction{Kind: KindSection, Type: section.Type, Props: props})
		emitSlot(i + 1)
	}
	return plan
}

// ResolveSlot maps the placements at slot to their CTA definitions, keeping
// placement order. Placements whose ctaId is missing from library are returned
// as dropped instead.
func ResolveSlot(placements []model.CTAPlacement, library []model.CTADefinition, slot int) ([]model.CTADefinition, []DroppedPlacement) {
	index := indexLibrary(library)
	ctas := []model.CTADefinition{}
	var dropped []DroppedPlacement
	for _, placement := range placements {
		if placement.Position != slot {
			continue
		}
		cta, ok := index[placement.CTAID]
		if !ok {
			dropped = append(dropped, DroppedPlacement{PlacementID: placement.ID, CTAID: placement.CTAID, Slot: slot})
			continue
		}
		ctas = append(ctas, cta)
	}
	return ctas, dropped
}

// BlogCTAs holds the resolved CTAs per blog anchor.
type BlogCTAs map[model.BlogAnchor][]model.CTADefinition

// At returns the CTAs for anchor, never nil.
func (b BlogCTAs) At(anchor model.BlogAnchor) []model.CTADefinition {
	if ctas, ok := b[anchor]; ok {
		return ctas
	}
	return []model.CTADefinition{}
}

// ResolveBlogCTAs resolves every blog placement to its CTA definition, grouped
// by anchor in placement order. All four anchors are present in the result.
func ResolveBlogCTAs(cfg model.TemplateConfig) (BlogCTAs, []DroppedPlacement) {
	index := indexLibrary(cfg.CTALibrary)
	out := make(BlogCTAs, 4)
	for _, anchor := range model.BlogAnchors() {
		out[anchor] = []model.CTADefinition{}
	}
	var dropped []DroppedPlacement
	for _, placement := range cfg.BlogCTAPlacements {
		if !placement.Position.Valid() {
			continue
		}
		cta, ok := index[placement.CTAID]
		if !ok {
			dropped = append(dropped, DroppedPlacement{PlacementID: placement.ID, CTAID: placement.CTAID, Anchor: placement.Position})
			continue
		}
		out[placement.Position] = append(out[placement.Position], cta)
	}
	return out, dropped
}

func indexLibrary(library []model.CTADefinition) map[string]model.CTADefinition {
	index := make(map[string]model.CTADefinition, len(library))
	for _, cta := range library {
		if _, seen := index[cta.ID]; !seen {
			index[cta.ID] = cta
		}
	}
	return index
}
