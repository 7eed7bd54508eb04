// Package jsonplan renders a page plan as the tagged JSON instruction list
// consumed by page-composition front ends.
package jsonplan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-sitegen/pkg/article"
	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/render"
)

// Name is the registry key of this renderer.
const Name = "json"

// Renderer emits {"page", "instructions", "dropped"} documents.
type Renderer struct{}

var _ render.Renderer = Renderer{}

// New returns the JSON renderer.
func New() Renderer {
	return Renderer{}
}

func (Renderer) Name() string {
	return Name
}

func (Renderer) ContentType() string {
	return "application/json"
}

// Render encodes the plan. Fragment mode emits only the instruction array.
func (Renderer) Render(_ context.Context, plan render.PagePlan, options render.RenderOptions) ([]byte, error) {
	var payload any = plan
	if options.Fragment {
		instructions := plan.Instructions
		if instructions == nil {
			instructions = []render.Instruction{}
		}
		payload = instructions
	}

	return encode(payload, options.Indent, "plan")
}

// RenderArticle encodes a composed blog post. Fragment mode emits only the
// segment array.
func (Renderer) RenderArticle(_ context.Context, _ model.TemplateConfig, post article.Article, options render.RenderOptions) ([]byte, error) {
	var payload any = post
	if options.Fragment {
		segments := post.Segments
		if segments == nil {
			segments = []article.Segment{}
		}
		payload = segments
	}
	return encode(payload, options.Indent, "article")
}

func encode(payload any, indent bool, what string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonplan renderer: encode %s: %w", what, err)
	}
	return append(data, '\n'), nil
}
