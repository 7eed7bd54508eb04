// Package editor implements the interactive authoring flows used by the CLI:
// navbar settings, optional pages and new CTA definitions. Each flow reads the
// current TemplateConfig, asks its questions through a PromptDriver and
// returns a model.Partial for the caller to merge.
package editor
