package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/article"
	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/render"
	rendertemplate "github.com/goliatone/go-sitegen/pkg/render/template"
	"github.com/goliatone/go-sitegen/pkg/render/template/gotemplate"
	theme "github.com/goliatone/go-theme"
)

// Name identifies the renderer inside the registry.
const Name = "html"

const (
	pageTemplate    = "templates/page.tmpl"
	navbarTemplate  = "templates/navbar.tmpl"
	slotTemplate    = "templates/cta_slot.tmpl"
	articleTemplate = "templates/article.tmpl"
	unknownTemplate = "templates/sections/unknown.tmpl"
	sectionDir      = "templates/sections/"
)

// Category tiles are fixed; the section config only supplies their images.
var categoryNames = []string{"Tech", "Home", "Fashion", "Sports", "Health", "Travel"}

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation. The
// template file system is still consulted to decide which section templates
// exist.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer turns a page plan into a static HTML preview.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	templateFS fs.FS
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs an HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	for _, name := range []string{pageTemplate, navbarTemplate, slotTemplate, articleTemplate, unknownTemplate} {
		if err := ensureTemplate(cfg.templateFS, name); err != nil {
			return nil, err
		}
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{
		templates:  templateRenderer,
		templateFS: cfg.templateFS,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return Name
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the preview document for a page plan. Empty CTA slots emit
// no markup. With options.Fragment only the sanitized body is returned.
func (r *Renderer) Render(ctx context.Context, plan render.PagePlan, options render.RenderOptions) ([]byte, error) {
	site := buildSite(plan.Config, options.Title)

	var body strings.Builder
	if err := r.renderNavbar(&body, plan.Config); err != nil {
		return nil, err
	}
	body.WriteString("<main>\n")
	for _, instruction := range plan.Instructions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch instruction.Kind {
		case render.KindCTASlot:
			if len(instruction.CTAs) == 0 {
				continue
			}
			markup, err := r.renderSlot(instruction.Slot, "", instruction.CTAs)
			if err != nil {
				return nil, err
			}
			body.WriteString(markup)
		default:
			markup, err := r.renderSection(instruction, site)
			if err != nil {
				return nil, err
			}
			body.WriteString(markup)
		}
		body.WriteString("\n")
	}
	body.WriteString("</main>")

	return r.document(body.String(), site, options)
}

// RenderArticle produces the preview document for a composed blog post, with
// the resolved CTAs after each anchor segment.
func (r *Renderer) RenderArticle(ctx context.Context, cfg model.TemplateConfig, post article.Article, options render.RenderOptions) ([]byte, error) {
	if options.Title == "" {
		options.Title = post.Meta.Title
	}
	site := buildSite(cfg, options.Title)
	if post.Meta.Description != "" {
		site.Description = post.Meta.Description
	}
	if post.Meta.Image != "" {
		site.OGImage = post.Meta.Image
	}

	segments := make([]segmentView, 0, len(post.Segments))
	for _, segment := range post.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view := segmentView{Anchor: string(segment.Anchor), HTML: segment.HTML}
		if len(segment.CTAs) > 0 {
			markup, err := r.renderSlot(0, segment.Anchor, segment.CTAs)
			if err != nil {
				return nil, err
			}
			view.SlotHTML = markup
		}
		segments = append(segments, view)
	}

	var body strings.Builder
	if err := r.renderNavbar(&body, cfg); err != nil {
		return nil, err
	}
	rendered, err := r.templates.RenderTemplate(articleTemplate, map[string]any{
		"meta":     post.Meta,
		"segments": segments,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render article: %w", err)
	}
	body.WriteString("<main>\n")
	body.WriteString(rendered)
	body.WriteString("\n</main>")

	return r.document(body.String(), site, options)
}

func (r *Renderer) document(body string, site siteView, options render.RenderOptions) ([]byte, error) {
	clean := sanitizer().Sanitize(body)
	if options.Fragment {
		return []byte(clean), nil
	}
	rendered, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"site":  site,
		"theme": buildThemeContext(options.Theme),
		"body":  clean,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) renderNavbar(out *strings.Builder, cfg model.TemplateConfig) error {
	if cfg.Navbar == nil || !cfg.Navbar.Enabled {
		return nil
	}
	rendered, err := r.templates.RenderTemplate(navbarTemplate, map[string]any{"navbar": cfg.Navbar})
	if err != nil {
		return fmt.Errorf("html renderer: render navbar: %w", err)
	}
	out.WriteString(rendered)
	out.WriteString("\n")
	return nil
}

func (r *Renderer) renderSection(instruction render.Instruction, site siteView) (string, error) {
	name := r.sectionTemplate(instruction.Type)
	data := map[string]any{
		"section": instruction.Type,
		"props":   instruction.Props,
		"site":    site,
	}
	if grid, ok := instruction.Props.(model.CategoryGridSection); ok {
		data["tiles"] = categoryTiles(grid.Images)
	}
	rendered, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render section %q: %w", instruction.Type, err)
	}
	return rendered, nil
}

func (r *Renderer) renderSlot(slot int, anchor model.BlogAnchor, ctas []model.CTADefinition) (string, error) {
	views := make([]ctaView, 0, len(ctas))
	for _, cta := range ctas {
		views = append(views, newCTAView(cta))
	}
	rendered, err := r.templates.RenderTemplate(slotTemplate, map[string]any{
		"slot":   slot,
		"anchor": string(anchor),
		"ctas":   views,
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: render cta slot: %w", err)
	}
	return rendered, nil
}

func (r *Renderer) sectionTemplate(sectionType string) string {
	if sectionType == "" || strings.ContainsAny(sectionType, "/\\.") {
		return unknownTemplate
	}
	name := sectionDir + sectionType + ".tmpl"
	if _, err := fs.Stat(r.templateFS, name); err != nil {
		return unknownTemplate
	}
	return name
}

type siteView struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	OGImage     string          `json:"ogImage"`
	FontsURL    string          `json:"fontsUrl"`
	HeadingFont string          `json:"headingFont"`
	BodyFont    string          `json:"bodyFont"`
	NavItems    []model.NavItem `json:"navItems"`
}

func buildSite(cfg model.TemplateConfig, title string) siteView {
	heading, body := cfg.Fonts()
	site := siteView{
		Title:       title,
		FontsURL:    cfg.FontStylesheetURL(),
		HeadingFont: heading,
		BodyFont:    body,
	}
	if cfg.Navbar != nil {
		site.Name = cfg.Navbar.SiteName
		site.NavItems = cfg.Navbar.NavItems
	}
	if cfg.SEO != nil {
		if site.Title == "" {
			site.Title = cfg.SEO.DefaultTitle
		}
		site.Description = cfg.SEO.DefaultDescription
		site.OGImage = cfg.SEO.OGImage
	}
	if site.Title == "" {
		site.Title = site.Name
	}
	return site
}

type ctaView struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Href        string `json:"href"`
	AffiliateID string `json:"affiliateId"`
}

func newCTAView(cta model.CTADefinition) ctaView {
	text := cta.Text
	if text == "" {
		text = cta.Name
	}
	return ctaView{
		ID:          cta.ID,
		Text:        text,
		Href:        cta.Href(),
		AffiliateID: cta.AffiliateID,
	}
}

type segmentView struct {
	Anchor   string `json:"anchor"`
	HTML     string `json:"html"`
	SlotHTML string `json:"slotHtml"`
}

type categoryTile struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func categoryTiles(images []string) []categoryTile {
	tiles := make([]categoryTile, len(categoryNames))
	for i, name := range categoryNames {
		tiles[i] = categoryTile{Name: name}
		if i < len(images) {
			tiles[i].Image = images[i]
		}
	}
	return tiles
}

type rendererTheme struct {
	Name         string            `json:"name"`
	Variant      string            `json:"variant"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func ensureTemplate(store fs.FS, name string) error {
	if store == nil {
		return fmt.Errorf("html renderer: template file system is nil")
	}
	if _, err := fs.Stat(store, name); err != nil {
		return fmt.Errorf("html renderer: template %q not found: %w", name, err)
	}
	return nil
}
