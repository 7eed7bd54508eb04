package model

// Partial names a subset of top-level TemplateConfig keys. A non-nil field
// replaces the matching key wholesale when applied; nested values are never
// deep-merged. It decodes from the same JSON shape as TemplateConfig, so a
// form payload such as {"navbar": {...}} becomes a Partial that only touches
// the navbar.
type Partial struct {
	Navbar               *NavbarConfig       `json:"navbar,omitempty"`
	Sections             *[]SectionInstance  `json:"sections,omitempty"`
	CTALibrary           *[]CTADefinition    `json:"ctaLibrary,omitempty"`
	HomeCTAPlacements    *[]CTAPlacement     `json:"homeCtaPlacements,omitempty"`
	BlogCTAPlacements    *[]BlogCTAPlacement `json:"blogCtaPlacements,omitempty"`
	LandingCTAPlacements *[]CTAPlacement     `json:"landingCtaPlacements,omitempty"`
	Typography           *Typography         `json:"typography,omitempty"`
	SEO                  *SEO                `json:"seo,omitempty"`
	Pages                *PageSettings       `json:"pages,omitempty"`
}

// Empty reports whether the partial names no keys.
func (p Partial) Empty() bool {
	return len(p.Keys()) == 0
}

// Keys lists the top-level JSON keys the partial replaces.
func (p Partial) Keys() []string {
	var keys []string
	if p.Navbar != nil {
		keys = append(keys, "navbar")
	}
	if p.Sections != nil {
		keys = append(keys, "sections")
	}
	if p.CTALibrary != nil {
		keys = append(keys, "ctaLibrary")
	}
	if p.HomeCTAPlacements != nil {
		keys = append(keys, "homeCtaPlacements")
	}
	if p.BlogCTAPlacements != nil {
		keys = append(keys, "blogCtaPlacements")
	}
	if p.LandingCTAPlacements != nil {
		keys = append(keys, "landingCtaPlacements")
	}
	if p.Typography != nil {
		keys = append(keys, "typography")
	}
	if p.SEO != nil {
		keys = append(keys, "seo")
	}
	if p.Pages != nil {
		keys = append(keys, "pages")
	}
	return keys
}

// Apply returns a copy of c with every key named by p replaced.
func (c TemplateConfig) Apply(p Partial) TemplateConfig {
	out := c.Clone()
	// Cloning the partial detaches the result from caller-owned slices.
	src := TemplateConfig{
		Navbar:     p.Navbar,
		Typography: p.Typography,
		SEO:        p.SEO,
		Pages:      p.Pages,
	}
	if p.Sections != nil {
		src.Sections = *p.Sections
	}
	if p.CTALibrary != nil {
		src.CTALibrary = *p.CTALibrary
	}
	if p.HomeCTAPlacements != nil {
		src.HomeCTAPlacements = *p.HomeCTAPlacements
	}
	if p.BlogCTAPlacements != nil {
		src.BlogCTAPlacements = *p.BlogCTAPlacements
	}
	if p.LandingCTAPlacements != nil {
		src.LandingCTAPlacements = *p.LandingCTAPlacements
	}
	src = src.Clone()

	if p.Navbar != nil {
		out.Navbar = src.Navbar
	}
	if p.Sections != nil {
		out.Sections = src.Sections
	}
	if p.CTALibrary != nil {
		out.CTALibrary = src.CTALibrary
	}
	if p.HomeCTAPlacements != nil {
		out.HomeCTAPlacements = src.HomeCTAPlacements
	}
	if p.BlogCTAPlacements != nil {
		out.BlogCTAPlacements = src.BlogCTAPlacements
	}
	if p.LandingCTAPlacements != nil {
		out.LandingCTAPlacements = src.LandingCTAPlacements
	}
	if p.Typography != nil {
		out.Typography = src.Typography
	}
	if p.SEO != nil {
		out.SEO = src.SEO
	}
	if p.Pages != nil {
		out.Pages = src.Pages
	}
	return out
}

// Combine merges q over p; keys named by q win.
func (p Partial) Combine(q Partial) Partial {
	if q.Navbar != nil {
		p.Navbar = q.Navbar
	}
	if q.Sections != nil {
		p.Sections = q.Sections
	}
	if q.CTALibrary != nil {
		p.CTALibrary = q.CTALibrary
	}
	if q.HomeCTAPlacements != nil {
		p.HomeCTAPlacements = q.HomeCTAPlacements
	}
	if q.BlogCTAPlacements != nil {
		p.BlogCTAPlacements = q.BlogCTAPlacements
	}
	if q.LandingCTAPlacements != nil {
		p.LandingCTAPlacements = q.LandingCTAPlacements
	}
	if q.Typography != nil {
		p.Typography = q.Typography
	}
	if q.SEO != nil {
		p.SEO = q.SEO
	}
	if q.Pages != nil {
		p.Pages = q.Pages
	}
	return p
}
