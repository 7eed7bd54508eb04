package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Section type identifiers understood by the renderers.
const (
	SectionHero             = "hero"
	SectionBlogGrid         = "blog-grid"
	SectionCategories       = "categories"
	SectionCategoriesBar    = "categories-bar"
	SectionSidebar          = "sidebar"
	SectionNewsletter       = "newsletter"
	SectionFooter           = "footer"
	SectionFeaturedProducts = "featured-products"
	SectionLatestArticle    = "latest-article"
	SectionTrustBadges      = "trust-badges"
	SectionSearchBar        = "search-bar"
	SectionReviews          = "reviews"
)

// ErrUnknownSection is returned by section edits that reference a type the
// document does not contain.
var ErrUnknownSection = errors.New("model: section not found")

// Section is the typed, defaults-applied view of a SectionInstance.
type Section interface {
	SectionType() string
}

type HeroSection struct {
	Heading         string  `json:"heading"`
	Subheading      string  `json:"subheading"`
	ButtonText      string  `json:"buttonText"`
	ButtonLink      string  `json:"buttonLink"`
	BackgroundImage string  `json:"backgroundImage"`
	ShowCTA         bool    `json:"showCTA"`
	OverlayOpacity  float64 `json:"overlayOpacity"`
}

func (HeroSection) SectionType() string { return SectionHero }

type BlogGridSection struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
}

func (BlogGridSection) SectionType() string { return SectionBlogGrid }

// CategoryGridSection maps images positionally onto the fixed category tiles.
type CategoryGridSection struct {
	Heading     string   `json:"heading"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (CategoryGridSection) SectionType() string { return SectionCategories }

type Category struct {
	Name     string `json:"name"`
	IconName string `json:"iconName"`
}

type CategoriesBarSection struct {
	Heading    string     `json:"heading"`
	Categories []Category `json:"categories"`
}

func (CategoriesBarSection) SectionType() string { return SectionCategoriesBar }

type SidebarSection struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
}

func (SidebarSection) SectionType() string { return SectionSidebar }

type NewsletterSection struct {
	Heading         string `json:"heading"`
	Description     string `json:"description"`
	ButtonText      string `json:"buttonText"`
	BackgroundImage string `json:"backgroundImage"`
}

func (NewsletterSection) SectionType() string { return SectionNewsletter }

type FooterSection struct{}

func (FooterSection) SectionType() string { return SectionFooter }

type FeaturedProductsSection struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
}

func (FeaturedProductsSection) SectionType() string { return SectionFeaturedProducts }

type LatestArticleSection struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
}

func (LatestArticleSection) SectionType() string { return SectionLatestArticle }

// TrustBadgesSection keeps empty image slots; renderers skip them.
type TrustBadgesSection struct {
	Heading string   `json:"heading"`
	Images  []string `json:"images"`
}

func (TrustBadgesSection) SectionType() string { return SectionTrustBadges }

type SearchBarSection struct {
	Heading string `json:"heading"`
}

func (SearchBarSection) SectionType() string { return SectionSearchBar }

type ReviewsSection struct {
	Heading     string   `json:"heading"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (ReviewsSection) SectionType() string { return SectionReviews }

// UnknownSection carries the raw fields of a type without a typed variant.
type UnknownSection struct {
	Type   string
	Fields map[string]any
}

func (u UnknownSection) SectionType() string { return u.Type }

// MarshalJSON emits the raw fields so unknown sections keep their props shape.
func (u UnknownSection) MarshalJSON() ([]byte, error) {
	if u.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(u.Fields)
}

var sectionDefaults = map[string]func() Section{
	SectionHero: func() Section {
		return &HeroSection{
			Heading:        "Elevate Your Choices",
			Subheading:     "Honest product reviews and buying guides",
			ButtonText:     "Explore Reviews",
			ButtonLink:     "/reviews",
			ShowCTA:        true,
			OverlayOpacity: 0.5,
		}
	},
	SectionBlogGrid: func() Section {
		return &BlogGridSection{
			Heading:     "Latest Articles",
			Description: "Fresh guides and reviews from our team",
		}
	},
	SectionCategories: func() Section {
		return &CategoryGridSection{
			Heading:     "Find Your Peak",
			Description: "Explore our carefully curated categories",
			Images:      make([]string, 6),
		}
	},
	SectionCategoriesBar: func() Section {
		return &CategoriesBarSection{
			Heading: "Browse Categories",
			Categories: []Category{
				{Name: "All", IconName: "Grid3x3"},
				{Name: "Tech", IconName: "Laptop"},
				{Name: "Home", IconName: "Home"},
				{Name: "Fashion", IconName: "Shirt"},
				{Name: "Sports", IconName: "Dumbbell"},
				{Name: "Health", IconName: "Heart"},
				{Name: "Travel", IconName: "Plane"},
			},
		}
	},
	SectionSidebar: func() Section {
		return &SidebarSection{Heading: "Popular Posts"}
	},
	SectionNewsletter: func() Section {
		return &NewsletterSection{
			Heading:     "Peak Picks Weekly",
			Description: "Get our best product recommendations and exclusive deals",
			ButtonText:  "Get Peak Picks",
		}
	},
	SectionFooter: func() Section { return &FooterSection{} },
	SectionFeaturedProducts: func() Section {
		return &FeaturedProductsSection{
			Heading:     "Top Picks This Week",
			Description: "Our hand-picked selection of the best deals",
		}
	},
	SectionLatestArticle: func() Section {
		return &LatestArticleSection{
			Heading:     "Latest Article",
			Description: "Check out our most recent post",
		}
	},
	SectionTrustBadges: func() Section {
		return &TrustBadgesSection{Heading: "As Featured In"}
	},
	SectionSearchBar: func() Section {
		return &SearchBarSection{Heading: "Search Articles"}
	},
	SectionReviews: func() Section {
		return &ReviewsSection{
			Heading:     "Latest Peak Reviews",
			Description: "Fresh insights on the newest products",
			Images:      make([]string, 3),
		}
	},
}

// SectionTypes returns the known section type identifiers, sorted.
func SectionTypes() []string {
	names := make([]string, 0, len(sectionDefaults))
	for name := range sectionDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownSectionType reports whether sectionType has a typed variant.
func KnownSectionType(sectionType string) bool {
	_, ok := sectionDefaults[sectionType]
	return ok
}

// DefaultSection returns the documented defaults for sectionType. Unknown
// types yield an UnknownSection with no fields.
func DefaultSection(sectionType string) Section {
	factory, ok := sectionDefaults[sectionType]
	if !ok {
		return UnknownSection{Type: sectionType}
	}
	return deref(factory())
}

// DecodeSection overlays fields on the defaults of sectionType. A field present
// in fields replaces the default; absent fields keep it. A field whose value has
// the wrong shape for the variant is reported as an error.
func DecodeSection(sectionType string, fields map[string]any) (Section, error) {
	factory, ok := sectionDefaults[sectionType]
	if !ok {
		return UnknownSection{Type: sectionType, Fields: cloneFields(fields)}, nil
	}
	target := factory()
	if len(fields) == 0 {
		return deref(target), nil
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("model: encode %s fields: %w", sectionType, err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return nil, fmt.Errorf("model: decode %s fields: %w", sectionType, err)
	}
	return deref(target), nil
}

func deref(section Section) Section {
	switch s := section.(type) {
	case *HeroSection:
		return *s
	case *BlogGridSection:
		return *s
	case *CategoryGridSection:
		return *s
	case *CategoriesBarSection:
		return *s
	case *SidebarSection:
		return *s
	case *NewsletterSection:
		return *s
	case *FooterSection:
		return *s
	case *FeaturedProductsSection:
		return *s
	case *LatestArticleSection:
		return *s
	case *TrustBadgesSection:
		return *s
	case *SearchBarSection:
		return *s
	case *ReviewsSection:
		return *s
	default:
		return section
	}
}

// Direction moves an entry towards the start (Up) or end (Down) of a sequence.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// ParseDirection accepts "up" or "down".
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("model: unknown direction %q", raw)
	}
}

// SortedSectionIndexes returns indexes into sections ordered by Order
// ascending, ties broken by insertion index. Order is a sort key only.
func SortedSectionIndexes(sections []SectionInstance) []int {
	idx := make([]int, len(sections))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return sections[idx[a]].Order < sections[idx[b]].Order
	})
	return idx
}

// SortedSections returns the sections in render order.
func SortedSections(sections []SectionInstance) []SectionInstance {
	idx := SortedSectionIndexes(sections)
	out := make([]SectionInstance, len(idx))
	for i, j := range idx {
		out[i] = sections[j]
	}
	return out
}

func findSection(sections []SectionInstance, sectionType string) int {
	for i, section := range sections {
		if section.Type == sectionType {
			return i
		}
	}
	return -1
}

// AddSection appends a section after the current last one in render order.
func AddSection(cfg TemplateConfig, sectionType string, fields map[string]any) (Partial, error) {
	sectionType = strings.TrimSpace(sectionType)
	if sectionType == "" {
		return Partial{}, &ValidationError{Issues: []Issue{{Path: "sections.type", Message: "section type is required"}}}
	}
	if findSection(cfg.Sections, sectionType) >= 0 {
		return Partial{}, &ValidationError{Issues: []Issue{{Path: "sections", Message: fmt.Sprintf("section %q already present", sectionType)}}}
	}
	order := 0
	for _, section := range cfg.Sections {
		if section.Order+1 > order {
			order = section.Order + 1
		}
	}
	sections := cloneSections(cfg.Sections)
	sections = append(sections, SectionInstance{
		Type:   sectionType,
		Config: cloneFields(fields),
		Order:  order,
	})
	return Partial{Sections: &sections}, nil
}

// RemoveSection drops the section of the given type.
func RemoveSection(cfg TemplateConfig, sectionType string) (Partial, error) {
	pos := findSection(cfg.Sections, sectionType)
	if pos < 0 {
		return Partial{}, fmt.Errorf("%w: %q", ErrUnknownSection, sectionType)
	}
	sections := cloneSections(cfg.Sections)
	sections = append(sections[:pos], sections[pos+1:]...)
	return Partial{Sections: &sections}, nil
}

// SetSectionField replaces one field of a section's config.
func SetSectionField(cfg TemplateConfig, sectionType, field string, value any) (Partial, error) {
	pos := findSection(cfg.Sections, sectionType)
	if pos < 0 {
		return Partial{}, fmt.Errorf("%w: %q", ErrUnknownSection, sectionType)
	}
	sections := cloneSections(cfg.Sections)
	if sections[pos].Config == nil {
		sections[pos].Config = make(map[string]any)
	}
	sections[pos].Config[field] = cloneValue(value)
	return Partial{Sections: &sections}, nil
}

// SetSectionEnabled toggles whether a section renders.
func SetSectionEnabled(cfg TemplateConfig, sectionType string, enabled bool) (Partial, error) {
	pos := findSection(cfg.Sections, sectionType)
	if pos < 0 {
		return Partial{}, fmt.Errorf("%w: %q", ErrUnknownSection, sectionType)
	}
	sections := cloneSections(cfg.Sections)
	sections[pos].Enabled = &enabled
	return Partial{Sections: &sections}, nil
}

// MoveSection swaps the Order of a section with its neighbour in the current
// sorted view. An enabled section steps over disabled neighbours, so every
// move changes the rendered page; a disabled section moves one step. Moving
// past either end is a no-op that returns an empty Partial. When both orders
// are equal the swap alone would not change the render order, so the two
// entries also trade insertion positions.
func MoveSection(cfg TemplateConfig, sectionType string, dir Direction) (Partial, error) {
	sorted := SortedSectionIndexes(cfg.Sections)
	pos := -1
	for i, j := range sorted {
		if cfg.Sections[j].Type == sectionType {
			pos = i
			break
		}
	}
	if pos < 0 {
		return Partial{}, fmt.Errorf("%w: %q", ErrUnknownSection, sectionType)
	}
	next := pos + int(dir)
	if cfg.Sections[sorted[pos]].IsEnabled() {
		for next >= 0 && next < len(sorted) && !cfg.Sections[sorted[next]].IsEnabled() {
			next += int(dir)
		}
	}
	if next < 0 || next >= len(sorted) {
		return Partial{}, nil
	}

	a, b := sorted[pos], sorted[next]
	sections := cloneSections(cfg.Sections)
	if sections[a].Order == sections[b].Order {
		sections[a], sections[b] = sections[b], sections[a]
	} else {
		sections[a].Order, sections[b].Order = sections[b].Order, sections[a].Order
	}
	return Partial{Sections: &sections}, nil
}
