package store

import (
	"github.com/goliatone/go-sitegen/pkg/model"
)

// EditFunc derives a partial update from the current document.
type EditFunc func(model.TemplateConfig) (model.Partial, error)

// Edit runs fn against the session document and merges its result as a single
// update. Errors from fn or validation leave the document unchanged.
func (s *ConfigStore) Edit(fn EditFunc) (model.TemplateConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := fn(s.current.Clone())
	if err != nil {
		return model.TemplateConfig{}, err
	}
	next := s.current.Apply(p)
	if err := next.Validate(); err != nil {
		return model.TemplateConfig{}, err
	}
	s.current = next
	return next.Clone(), nil
}

// RemoveCTA deletes a CTA and every placement referencing it.
func (s *ConfigStore) RemoveCTA(id string) (model.TemplateConfig, error) {
	return s.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
		return model.RemoveCTA(cfg, id)
	})
}

// MoveSection swaps a section's order with its sorted neighbour.
func (s *ConfigStore) MoveSection(sectionType string, dir model.Direction) (model.TemplateConfig, error) {
	return s.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
		return model.MoveSection(cfg, sectionType, dir)
	})
}

// MovePlacement swaps a home or landing placement with its array neighbour.
func (s *ConfigStore) MovePlacement(target model.PlacementTarget, id string, dir model.Direction) (model.TemplateConfig, error) {
	return s.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
		return model.MovePlacement(cfg, target, id, dir)
	})
}

// SetPageEnabled toggles an optional page and resynchronises the navbar.
func (s *ConfigStore) SetPageEnabled(page model.PageID, enabled bool) (model.TemplateConfig, error) {
	return s.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
		return model.SetPageEnabled(cfg, page, enabled)
	})
}

// SetPageShowInNav toggles a page's navbar visibility and resynchronises it.
func (s *ConfigStore) SetPageShowInNav(page model.PageID, show bool) (model.TemplateConfig, error) {
	return s.Edit(func(cfg model.TemplateConfig) (model.Partial, error) {
		return model.SetPageShowInNav(cfg, page, show)
	})
}
