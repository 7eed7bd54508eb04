package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-sitegen/pkg/orchestrator"
	"github.com/goliatone/go-sitegen/pkg/render"
	"github.com/goliatone/go-sitegen/pkg/renderers/html"
	"github.com/goliatone/go-sitegen/pkg/renderers/jsonplan"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		flags    targetFlags
		page     string
		renderer string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the render plan for the home or landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := a.pageRequest(cmd.Context(), flags, page)
			if err != nil {
				return err
			}
			req.Renderer = renderer
			req.RenderOptions.Indent = true
			data, err := a.generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(a, output, data)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&page, "page", string(render.PageHome), "home or landing")
	cmd.Flags().StringVar(&renderer, "renderer", jsonplan.Name, "renderer name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

type themeFlags struct {
	name    string
	variant string
	vars    map[string]string
}

func (f *themeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "theme", "", "theme name exposed to templates")
	cmd.Flags().StringVar(&f.variant, "theme-variant", "", "theme variant, e.g. light or dark")
	cmd.Flags().StringToStringVar(&f.vars, "css-var", nil, "CSS custom property as name=value (repeatable)")
}

// config returns nil when no theme flag was given.
func (f themeFlags) config() *theme.RendererConfig {
	if f.name == "" && f.variant == "" && len(f.vars) == 0 {
		return nil
	}
	vars := make(map[string]string, len(f.vars))
	for key, value := range f.vars {
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		vars[key] = value
	}
	return &theme.RendererConfig{
		Theme:   f.name,
		Variant: f.variant,
		CSSVars: vars,
	}
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		flags    targetFlags
		themes   themeFlags
		page     string
		output   string
		title    string
		fragment bool
		watch    bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the home or landing page as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch && flags.file == "" {
				return errors.New("--watch requires --file")
			}
			if watch && output == "" {
				return errors.New("--watch requires --output")
			}
			build := func(ctx context.Context) error {
				req, err := a.pageRequest(ctx, flags, page)
				if err != nil {
					return err
				}
				req.Renderer = html.Name
				req.RenderOptions = render.RenderOptions{
					Title:    title,
					Fragment: fragment,
					Theme:    themes.config(),
				}
				data, err := a.generate(ctx, req)
				if err != nil {
					return err
				}
				return writeOutput(a, output, data)
			}
			if err := build(cmd.Context()); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.watch(cmd.Context(), flags.file, build)
		},
	}
	flags.register(cmd)
	themes.register(cmd)
	cmd.Flags().StringVar(&page, "page", string(render.PageHome), "home or landing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&title, "title", "", "document title (default is the SEO title)")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render the page body only")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the config file changes")
	return cmd
}

func newArticleCmd(a *app) *cobra.Command {
	var (
		flags    targetFlags
		themes   themeFlags
		renderer string
		output   string
		fragment bool
	)
	cmd := &cobra.Command{
		Use:   "article <post.md>",
		Short: "Render a Markdown blog post with its CTAs injected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.openTarget(cmd.Context(), flags)
			if err != nil {
				return err
			}
			source, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer source.Close()

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			cfg := t.snapshot()
			data, err := orch.GenerateArticle(cmd.Context(), orchestrator.ArticleRequest{
				Config:   &cfg,
				Source:   source,
				Name:     filepath.Base(args[0]),
				Renderer: renderer,
				RenderOptions: render.RenderOptions{
					Fragment: fragment,
					Indent:   true,
					Theme:    themes.config(),
				},
			})
			if err != nil {
				return err
			}
			return writeOutput(a, output, data)
		},
	}
	flags.register(cmd)
	themes.register(cmd)
	cmd.Flags().StringVar(&renderer, "renderer", html.Name, "renderer name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render the article body only")
	return cmd
}

// pageRequest resolves the target into an explicit config so file and project
// targets render the same way.
func (a *app) pageRequest(ctx context.Context, flags targetFlags, rawPage string) (orchestrator.Request, error) {
	page, err := render.ParsePage(rawPage)
	if err != nil {
		return orchestrator.Request{}, err
	}
	t, err := a.openTarget(ctx, flags)
	if err != nil {
		return orchestrator.Request{}, err
	}
	cfg := t.snapshot()
	return orchestrator.Request{Config: &cfg, Page: page}, nil
}

func (a *app) generate(ctx context.Context, req orchestrator.Request) ([]byte, error) {
	orch, err := a.orchestrator()
	if err != nil {
		return nil, err
	}
	return orch.Generate(ctx, req)
}

// watch re-runs build each time path is written or replaced, until ctx is
// done. Editors that save by rename are handled by watching the directory.
func (a *app) watch(ctx context.Context, path string, build func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	a.logger.Info("watching for changes", zap.String("file", abs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			a.logger.Debug("change detected", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if err := build(ctx); err != nil {
				a.logger.Error("rebuild failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
