package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-sitegen/pkg/article"
	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/persistence/memory"
	"github.com/goliatone/go-sitegen/pkg/render"
	"github.com/goliatone/go-sitegen/pkg/renderers/html"
	"github.com/goliatone/go-sitegen/pkg/renderers/jsonplan"
	"github.com/goliatone/go-sitegen/pkg/store"
)

const defaultRendererName = html.Name

// ErrArticleUnsupported is returned when the selected renderer cannot render
// blog articles.
var ErrArticleUnsupported = errors.New("orchestrator: renderer does not support articles")

// ArticleRenderer is implemented by renderers that can render a composed blog
// post in addition to page plans.
type ArticleRenderer interface {
	RenderArticle(ctx context.Context, cfg model.TemplateConfig, post article.Article, options render.RenderOptions) ([]byte, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore injects the config store that resolves project ids and supplies
// the session document.
func WithStore(s *store.ConfigStore) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that runs on the resolved
// configuration before planning. Repeated calls chain in order.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithLogger sets the logger used for plan diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates config resolution, planning and rendering. It
// applies sensible defaults (in-memory store, html and json renderers) while
// remaining open to dependency injection.
type Orchestrator struct {
	store           *store.ConfigStore
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one page render.
type Request struct {
	// ProjectID loads a persisted project into the session before rendering.
	ProjectID string

	// Config renders the given document directly, bypassing the store. It
	// takes precedence over ProjectID.
	Config *model.TemplateConfig

	// Page selects the home or landing plan. Blank means home.
	Page render.Page

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	RenderOptions render.RenderOptions
}

// ArticleRequest describes one blog post render.
type ArticleRequest struct {
	ProjectID string
	Config    *model.TemplateConfig

	// Source holds the Markdown post with optional front matter; Name is used
	// for the title fallback and error messages.
	Source io.Reader
	Name   string

	Renderer      string
	RenderOptions render.RenderOptions
}

// Plan resolves the configuration for req and returns its page plan without
// rendering it.
func (o *Orchestrator) Plan(ctx context.Context, req Request) (render.PagePlan, error) {
	if err := o.ready(ctx); err != nil {
		return render.PagePlan{}, err
	}
	cfg, err := o.resolveConfig(ctx, req.ProjectID, req.Config)
	if err != nil {
		return render.PagePlan{}, err
	}
	plan := render.BuildPlan(cfg, req.Page)
	o.logPlan(plan)
	return plan, nil
}

// Generate executes the resolve → transform → plan → render sequence and
// returns the rendered bytes (HTML for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	plan, err := o.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, plan, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// GenerateArticle parses a Markdown post, injects the blog CTAs at their
// anchors and renders it with an ArticleRenderer.
func (o *Orchestrator) GenerateArticle(ctx context.Context, req ArticleRequest) ([]byte, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: article source is required")
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	articles, ok := renderer.(ArticleRenderer)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrArticleUnsupported, renderer.Name())
	}

	cfg, err := o.resolveConfig(ctx, req.ProjectID, req.Config)
	if err != nil {
		return nil, err
	}
	post, err := article.Parse(req.Source, req.Name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse article: %w", err)
	}
	composed, err := article.Compose(post, cfg)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: compose article: %w", err)
	}
	if len(composed.Dropped) > 0 {
		o.logger.Warn("dropped dangling blog placements",
			zap.String("slug", post.Meta.Slug),
			zap.Int("count", len(composed.Dropped)),
		)
	}

	output, err := articles.RenderArticle(ctx, cfg, composed, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render article: %w", err)
	}
	return output, nil
}

// Store returns the config store backing the orchestrator.
func (o *Orchestrator) Store() *store.ConfigStore {
	return o.store
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) resolveConfig(ctx context.Context, projectID string, explicit *model.TemplateConfig) (model.TemplateConfig, error) {
	var cfg model.TemplateConfig
	switch {
	case explicit != nil:
		if err := explicit.Validate(); err != nil {
			return model.TemplateConfig{}, err
		}
		cfg = explicit.Clone()
	case projectID != "":
		loaded, err := o.store.Load(ctx, projectID)
		if err != nil {
			return model.TemplateConfig{}, fmt.Errorf("orchestrator: load project: %w", err)
		}
		cfg = loaded
	default:
		cfg = o.store.Snapshot()
	}

	for _, t := range o.transformers {
		if err := t.Transform(ctx, &cfg); err != nil {
			return model.TemplateConfig{}, fmt.Errorf("orchestrator: transform config: %w", err)
		}
	}
	return cfg, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) logPlan(plan render.PagePlan) {
	if len(plan.Dropped) > 0 {
		o.logger.Warn("dropped dangling cta placements",
			zap.String("page", string(plan.Page)),
			zap.Int("count", len(plan.Dropped)),
		)
	}
	for _, m := range plan.Malformed {
		o.logger.Warn("section config fell back to defaults",
			zap.String("page", string(plan.Page)),
			zap.String("type", m.Type),
			zap.String("error", m.Error),
		)
	}
	o.logger.Debug("planned page",
		zap.String("page", string(plan.Page)),
		zap.Int("instructions", len(plan.Instructions)),
		zap.Int("sections", plan.Sections()),
	)
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.store == nil {
		o.store = store.New(memory.New(), store.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(jsonplan.New())
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
