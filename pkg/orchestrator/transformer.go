package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/model"
)

// Transformer mutates the configuration after it is resolved and before it is
// planned. Implementations can swap copy for a campaign, force a typography
// preset or apply arbitrary rewrites. The stored document is never touched.
type Transformer interface {
	Transform(ctx context.Context, cfg *model.TemplateConfig) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, cfg *model.TemplateConfig) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, cfg *model.TemplateConfig) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, cfg)
}

// PresetTransformer overlays a partial document onto the configuration. The
// preset uses the same top-level keys as a TemplateConfig and replaces each
// key it names wholesale, for example:
//
//	seo:
//	  defaultTitle: Holiday Gift Guide
//	typography:
//	  headingFont: Lora
//	  bodyFont: Inter
type PresetTransformer struct {
	preset model.Partial
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	preset, err := model.DecodePartial(data)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	if preset.Empty() {
		return nil, errors.New("preset transformer: document names no keys")
	}
	return &PresetTransformer{preset: preset}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Keys lists the top-level keys the preset replaces.
func (t *PresetTransformer) Keys() []string {
	return t.preset.Keys()
}

// Transform applies the preset and validates the result.
func (t *PresetTransformer) Transform(ctx context.Context, cfg *model.TemplateConfig) error {
	if cfg == nil {
		return errors.New("preset transformer: config is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	next := cfg.Apply(t.preset)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("preset transformer: %w", err)
	}
	*cfg = next
	return nil
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, cfg *model.TemplateConfig) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, cfg); err != nil {
				return err
			}
		}
		return nil
	})
}

// PruneTransformer drops placements whose ctaId no longer resolves, so
// renderers and plan consumers never see the dangling references.
func PruneTransformer() Transformer {
	return TransformerFunc(func(_ context.Context, cfg *model.TemplateConfig) error {
		if cfg == nil {
			return errors.New("prune transformer: config is nil")
		}
		partial, removed := model.PruneDanglingPlacements(*cfg)
		if removed > 0 {
			*cfg = cfg.Apply(partial)
		}
		return nil
	})
}
