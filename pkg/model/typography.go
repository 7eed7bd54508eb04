package model

import (
	"net/url"
	"strings"
)

// DefaultFont is used when typography is absent or a family is blank.
const DefaultFont = "Inter"

const googleFontsURL = "https://fonts.googleapis.com/css2"

// Fonts returns the heading and body families with defaults applied.
func (c TemplateConfig) Fonts() (heading, body string) {
	heading, body = DefaultFont, DefaultFont
	if c.Typography == nil {
		return heading, body
	}
	if f := strings.TrimSpace(c.Typography.HeadingFont); f != "" {
		heading = f
	}
	if f := strings.TrimSpace(c.Typography.BodyFont); f != "" {
		body = f
	}
	return heading, body
}

// FontStylesheetURL builds the Google Fonts stylesheet link for the configured
// families, listing each family once.
func (c TemplateConfig) FontStylesheetURL() string {
	heading, body := c.Fonts()
	families := []string{heading}
	if body != heading {
		families = append(families, body)
	}
	parts := make([]string, 0, len(families)+1)
	for _, family := range families {
		parts = append(parts, "family="+strings.ReplaceAll(url.PathEscape(family), "%20", "+")+":wght@400;700")
	}
	parts = append(parts, "display=swap")
	return googleFontsURL + "?" + strings.Join(parts, "&")
}
