package model

// LogoType selects how the navbar brand is rendered.
type LogoType string

const (
	LogoTypeText  LogoType = "text"
	LogoTypeImage LogoType = "image"
)

// NavItem is a single navbar link.
type NavItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavbarConfig configures the site navbar.
type NavbarConfig struct {
	Enabled    bool      `json:"enabled"`
	SiteName   string    `json:"siteName"`
	LogoType   LogoType  `json:"logoType"`
	LogoImage  string    `json:"logoImage"`
	NavItems   []NavItem `json:"navItems"`
	ShowSearch bool      `json:"showSearch"`
}

// SectionInstance is the persisted form of a page section. Config is the raw
// field bag written by the builder forms; DecodeSection turns it into a typed
// variant. Enabled is optional and treated as true when absent.
type SectionInstance struct {
	Type    string         `json:"type"`
	Config  map[string]any `json:"config"`
	Order   int            `json:"order"`
	Enabled *bool          `json:"enabled,omitempty"`
}

// IsEnabled reports whether the section participates in rendering.
func (s SectionInstance) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// CTADefinition is a reusable affiliate call-to-action button.
type CTADefinition struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Text           string `json:"text"`
	AffiliateURL   string `json:"affiliateUrl"`
	AffiliateID    string `json:"affiliateId"`
	TrackingParams string `json:"trackingParams"`
}

// CTAPlacement positions a CTA at an integer slot of the home or landing page.
// Slot 0 renders before the first section, slot n after the n-th section.
type CTAPlacement struct {
	ID       string `json:"id"`
	CTAID    string `json:"ctaId"`
	Position int    `json:"position"`

	// SectionID names the section the slot was authored against. It is kept
	// for round-tripping and plays no part in slot resolution.
	SectionID string `json:"sectionId,omitempty"`
}

// BlogAnchor names an insertion point inside a blog post body.
type BlogAnchor string

const (
	AnchorAfterIntro       BlogAnchor = "after-intro"
	AnchorMidContent       BlogAnchor = "mid-content"
	AnchorBeforeConclusion BlogAnchor = "before-conclusion"
	AnchorEndOfPost        BlogAnchor = "end-of-post"
)

// BlogAnchors lists the anchors in reading order.
func BlogAnchors() []BlogAnchor {
	return []BlogAnchor{AnchorAfterIntro, AnchorMidContent, AnchorBeforeConclusion, AnchorEndOfPost}
}

// Valid reports whether a is one of the known anchors.
func (a BlogAnchor) Valid() bool {
	switch a {
	case AnchorAfterIntro, AnchorMidContent, AnchorBeforeConclusion, AnchorEndOfPost:
		return true
	default:
		return false
	}
}

// BlogCTAPlacement positions a CTA at a named anchor of a blog post.
type BlogCTAPlacement struct {
	ID       string     `json:"id"`
	CTAID    string     `json:"ctaId"`
	Position BlogAnchor `json:"position"`
}

// Typography names the heading and body font families.
type Typography struct {
	HeadingFont string `json:"headingFont"`
	BodyFont    string `json:"bodyFont"`
}

// SEO holds the site-wide meta defaults.
type SEO struct {
	DefaultTitle       string `json:"defaultTitle"`
	DefaultDescription string `json:"defaultDescription"`
	OGImage            string `json:"ogImage"`
}

// TemplateConfig is the root configuration document, one per project.
type TemplateConfig struct {
	Navbar               *NavbarConfig      `json:"navbar,omitempty"`
	Sections             []SectionInstance  `json:"sections"`
	CTALibrary           []CTADefinition    `json:"ctaLibrary"`
	HomeCTAPlacements    []CTAPlacement     `json:"homeCtaPlacements"`
	BlogCTAPlacements    []BlogCTAPlacement `json:"blogCtaPlacements"`
	LandingCTAPlacements []CTAPlacement     `json:"landingCtaPlacements"`
	Typography           *Typography        `json:"typography,omitempty"`
	SEO                  *SEO               `json:"seo,omitempty"`
	Pages                *PageSettings      `json:"pages,omitempty"`
}

// Default returns the document a fresh editing session starts from.
func Default() TemplateConfig {
	return TemplateConfig{
		Navbar: &NavbarConfig{
			Enabled:  true,
			SiteName: "My Site",
			LogoType: LogoTypeText,
			NavItems: []NavItem{
				{ID: "nav-1", Label: "Home", Path: "/"},
				{ID: "nav-2", Label: "Reviews", Path: "/reviews"},
				{ID: "nav-3", Label: "Contact", Path: "/contact"},
			},
			ShowSearch: true,
		},
		Sections:             []SectionInstance{},
		CTALibrary:           []CTADefinition{},
		HomeCTAPlacements:    []CTAPlacement{},
		BlogCTAPlacements:    []BlogCTAPlacement{},
		LandingCTAPlacements: []CTAPlacement{},
	}
}

// Clone returns a deep copy so snapshots handed to callers never alias the
// session document.
func (c TemplateConfig) Clone() TemplateConfig {
	out := TemplateConfig{
		Sections:             cloneSections(c.Sections),
		CTALibrary:           cloneSlice(c.CTALibrary),
		HomeCTAPlacements:    cloneSlice(c.HomeCTAPlacements),
		BlogCTAPlacements:    cloneSlice(c.BlogCTAPlacements),
		LandingCTAPlacements: cloneSlice(c.LandingCTAPlacements),
	}
	if c.Navbar != nil {
		nav := *c.Navbar
		nav.NavItems = cloneSlice(c.Navbar.NavItems)
		out.Navbar = &nav
	}
	if c.Typography != nil {
		typo := *c.Typography
		out.Typography = &typo
	}
	if c.SEO != nil {
		seo := *c.SEO
		out.SEO = &seo
	}
	if c.Pages != nil {
		pages := c.Pages.clone()
		out.Pages = &pages
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneSections(in []SectionInstance) []SectionInstance {
	if in == nil {
		return nil
	}
	out := make([]SectionInstance, len(in))
	for i, section := range in {
		out[i] = section
		out[i].Config = cloneFields(section.Config)
		if section.Enabled != nil {
			enabled := *section.Enabled
			out[i].Enabled = &enabled
		}
	}
	return out
}

func cloneFields(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneFields(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return cloneSlice(v)
	default:
		return v
	}
}
