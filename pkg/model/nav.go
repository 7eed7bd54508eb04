package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageID identifies an optional site page.
type PageID string

const (
	PageAbout               PageID = "about"
	PageBlog                PageID = "blog"
	PageContact             PageID = "contact"
	PagePrivacy             PageID = "privacy"
	PageTerms               PageID = "terms"
	PageAffiliateDisclaimer PageID = "affiliate-disclaimer"
)

// HomeNavID is the id of the always-present home nav item.
const HomeNavID = "nav-home"

// KnownPages lists the optional pages in navbar order.
func KnownPages() []PageID {
	return []PageID{PageAbout, PageBlog, PageContact, PagePrivacy, PageTerms, PageAffiliateDisclaimer}
}

// Known reports whether p is one of KnownPages.
func (p PageID) Known() bool {
	for _, known := range KnownPages() {
		if p == known {
			return true
		}
	}
	return false
}

// PageSetting carries per-page navbar options.
type PageSetting struct {
	ShowInNav bool   `json:"showInNav"`
	Label     string `json:"label,omitempty"`
	Path      string `json:"path,omitempty"`
}

// PageSettings records which optional pages are enabled and how they appear
// in the navbar.
type PageSettings struct {
	EnabledPages []PageID               `json:"enabledPages"`
	PageSettings map[PageID]PageSetting `json:"pageSettings"`
}

func (p PageSettings) clone() PageSettings {
	out := PageSettings{EnabledPages: cloneSlice(p.EnabledPages)}
	if p.PageSettings != nil {
		out.PageSettings = make(map[PageID]PageSetting, len(p.PageSettings))
		for id, setting := range p.PageSettings {
			out.PageSettings[id] = setting
		}
	}
	return out
}

// Enabled reports whether page is in EnabledPages.
func (p PageSettings) Enabled(page PageID) bool {
	for _, id := range p.EnabledPages {
		if id == page {
			return true
		}
	}
	return false
}

// Label returns the configured label or the title-cased page id.
func (p PageSettings) Label(page PageID) string {
	if setting, ok := p.PageSettings[page]; ok && strings.TrimSpace(setting.Label) != "" {
		return setting.Label
	}
	return titleCase(string(page))
}

// Path returns the configured path or "/<page>".
func (p PageSettings) Path(page PageID) string {
	if setting, ok := p.PageSettings[page]; ok && strings.TrimSpace(setting.Path) != "" {
		return setting.Path
	}
	return "/" + string(page)
}

var titleCaser = cases.Title(language.English)

func titleCase(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

// NavItemsFor synthesises the navbar items: home first, then every page that
// is enabled and flagged showInNav, in KnownPages order.
func NavItemsFor(pages *PageSettings) []NavItem {
	items := []NavItem{{ID: HomeNavID, Label: "Home", Path: "/"}}
	if pages == nil {
		return items
	}
	for _, page := range KnownPages() {
		if !pages.Enabled(page) || !pages.PageSettings[page].ShowInNav {
			continue
		}
		items = append(items, NavItem{
			ID:    "nav-" + string(page),
			Label: pages.Label(page),
			Path:  pages.Path(page),
		})
	}
	return items
}

// SyncNavItems returns a Partial replacing navbar.navItems with NavItemsFor.
// Documents without a navbar are left alone.
func SyncNavItems(cfg TemplateConfig) Partial {
	if cfg.Navbar == nil {
		return Partial{}
	}
	nav := *cfg.Navbar
	nav.NavItems = NavItemsFor(cfg.Pages)
	return Partial{Navbar: &nav}
}

// SetPageEnabled enables or disables an optional page and re-synchronises the
// navbar.
func SetPageEnabled(cfg TemplateConfig, page PageID, enabled bool) (Partial, error) {
	if !page.Known() {
		return Partial{}, fmt.Errorf("model: unknown page %q", page)
	}
	pages := PageSettings{}
	if cfg.Pages != nil {
		pages = cfg.Pages.clone()
	}

	var next []PageID
	for _, known := range KnownPages() {
		on := pages.Enabled(known)
		if known == page {
			on = enabled
		}
		if on {
			next = append(next, known)
		}
	}
	pages.EnabledPages = next
	if pages.EnabledPages == nil {
		pages.EnabledPages = []PageID{}
	}
	return withPages(cfg, pages), nil
}

// SetPageShowInNav toggles a page's showInNav flag and re-synchronises the
// navbar.
func SetPageShowInNav(cfg TemplateConfig, page PageID, show bool) (Partial, error) {
	if !page.Known() {
		return Partial{}, fmt.Errorf("model: unknown page %q", page)
	}
	pages := PageSettings{}
	if cfg.Pages != nil {
		pages = cfg.Pages.clone()
	}
	if pages.EnabledPages == nil {
		pages.EnabledPages = []PageID{}
	}
	if pages.PageSettings == nil {
		pages.PageSettings = make(map[PageID]PageSetting)
	}
	setting := pages.PageSettings[page]
	setting.ShowInNav = show
	pages.PageSettings[page] = setting
	return withPages(cfg, pages), nil
}

func withPages(cfg TemplateConfig, pages PageSettings) Partial {
	next := cfg
	next.Pages = &pages
	return Partial{Pages: &pages}.Combine(SyncNavItems(next))
}
