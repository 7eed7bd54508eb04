// Package article composes blog posts: it reads front matter and a Markdown
// body, splits the body at the four named CTA anchors and attaches the CTAs
// resolved for each anchor.
package article

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/frontmatter"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/render"
)

// Meta is the post front matter.
type Meta struct {
	Title       string   `yaml:"title" json:"title"`
	Slug        string   `yaml:"slug" json:"slug,omitempty"`
	Author      string   `yaml:"author" json:"author,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Date        string   `yaml:"date" json:"date,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Image       string   `yaml:"image" json:"image,omitempty"`
}

// Post is a parsed Markdown source.
type Post struct {
	Meta Meta
	Body []byte
}

// Segment is the sanitized HTML preceding an anchor, plus the CTAs placed at
// that anchor.
type Segment struct {
	Anchor model.BlogAnchor      `json:"anchor"`
	HTML   string                `json:"html"`
	CTAs   []model.CTADefinition `json:"ctas"`
}

// Article is a post split into the four anchor segments in reading order.
type Article struct {
	Meta     Meta                      `json:"meta"`
	Segments []Segment                 `json:"segments"`
	Dropped  []render.DroppedPlacement `json:"dropped,omitempty"`
}

// HTML concatenates the segment bodies without CTAs.
func (a Article) HTML() string {
	var b strings.Builder
	for _, segment := range a.Segments {
		b.WriteString(segment.HTML)
	}
	return b.String()
}

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	policyOnce sync.Once
	policy     *bluemonday.Policy

	titleCaser = cases.Title(language.English)
)

func bodyPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// Parse reads front matter (YAML, TOML or JSON) followed by Markdown. Input
// without front matter is treated as a bare body. A missing title falls back
// to the first level-1 heading, then to the title-cased slug or file name.
func Parse(r io.Reader, name string) (Post, error) {
	var meta Meta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return Post{}, fmt.Errorf("article: parse front matter: %w", err)
	}
	post := Post{Meta: meta, Body: body}
	if strings.TrimSpace(post.Meta.Title) == "" {
		post.Meta.Title = fallbackTitle(body, meta.Slug, name)
	}
	return post, nil
}

func fallbackTitle(body []byte, slug, name string) string {
	doc := markdown.Parser().Parse(text.NewReader(body))
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level == 1 {
			if title := strings.TrimSpace(string(heading.Text(body))); title != "" {
				return title
			}
		}
	}
	base := slug
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return titleCaser.String(base)
}

// Split renders the body and cuts it into four segments, one per anchor.
//
// Over the top-level blocks, with h2 the indexes of level-2 headings:
// the intro ends at the first h2 (or after the first block when there is
// none); the conclusion starts at the last h2 when there are at least two (or
// at the final block); the mid point is the middle h2 when there are at least
// three, otherwise halfway between the intro end and the conclusion.
func Split(body []byte) ([4]string, error) {
	var out [4]string
	doc := markdown.Parser().Parse(text.NewReader(body))

	var blocks []ast.Node
	var h2 []int
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level == 2 {
			h2 = append(h2, len(blocks))
		}
		blocks = append(blocks, node)
	}

	bounds := boundaries(len(blocks), h2)
	start := 0
	for i, end := range bounds {
		var buf bytes.Buffer
		for _, node := range blocks[start:end] {
			if err := markdown.Renderer().Render(&buf, body, node); err != nil {
				return out, fmt.Errorf("article: render markdown: %w", err)
			}
		}
		out[i] = bodyPolicy().Sanitize(buf.String())
		start = end
	}
	return out, nil
}

// boundaries returns the exclusive end index of each of the four segments.
func boundaries(m int, h2 []int) [4]int {
	n := len(h2)

	introEnd := min(1, m)
	if n > 0 {
		introEnd = h2[0]
	}

	conclusion := max(m-1, introEnd)
	if n >= 2 {
		conclusion = h2[n-1]
	}
	conclusion = max(conclusion, introEnd)

	mid := (introEnd + conclusion) / 2
	if n >= 3 {
		mid = h2[n/2]
	}
	mid = min(max(mid, introEnd), conclusion)

	return [4]int{introEnd, mid, conclusion, m}
}

// Compose splits post and attaches the blog CTAs resolved from cfg.
func Compose(post Post, cfg model.TemplateConfig) (Article, error) {
	parts, err := Split(post.Body)
	if err != nil {
		return Article{}, err
	}
	ctas, dropped := render.ResolveBlogCTAs(cfg)

	art := Article{Meta: post.Meta, Dropped: dropped}
	for i, anchor := range model.BlogAnchors() {
		art.Segments = append(art.Segments, Segment{
			Anchor: anchor,
			HTML:   parts[i],
			CTAs:   ctas.At(anchor),
		})
	}
	return art, nil
}
