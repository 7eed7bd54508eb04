// Package store holds the editing session's TemplateConfig and synchronises
// it with a persistence collaborator.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/persistence"
)

// Option customises a ConfigStore.
type Option func(*ConfigStore)

// WithLogger sets the structured logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *ConfigStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPruneOnLoad drops placements with unresolved ctaIds from loaded
// documents. Off by default; renderers already skip them.
func WithPruneOnLoad(enabled bool) Option {
	return func(s *ConfigStore) {
		s.pruneOnLoad = enabled
	}
}

// WithInitial starts the session from cfg instead of model.Default.
func WithInitial(cfg model.TemplateConfig) Option {
	return func(s *ConfigStore) {
		s.current = cfg.Clone()
	}
}

// ConfigStore owns one live TemplateConfig per editing session.
type ConfigStore struct {
	persist     persistence.Store
	logger      *zap.Logger
	pruneOnLoad bool

	mu        sync.Mutex
	current   model.TemplateConfig
	projectID string
	name      string
	loadSeq   uint64
}

// New returns a store seeded with the default document and no bound project.
func New(p persistence.Store, opts ...Option) *ConfigStore {
	s := &ConfigStore{
		persist: p,
		logger:  zap.NewNop(),
		current: model.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Snapshot returns a detached copy of the session document.
func (s *ConfigStore) Snapshot() model.TemplateConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// ProjectID returns the bound project id, empty before the first save or load.
func (s *ConfigStore) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

// ProjectName returns the name the session was last loaded or saved under.
func (s *ConfigStore) ProjectName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Load fetches a project and replaces the session document wholesale. When a
// newer Load starts before this one returns, the response is discarded with
// ErrStaleResponse.
func (s *ConfigStore) Load(ctx context.Context, id string) (model.TemplateConfig, error) {
	token := s.beginLoad()

	doc, err := s.persist.Get(ctx, id)
	if err != nil {
		s.logger.Warn("load project failed", zap.String("project_id", id), zap.Error(err))
		return model.TemplateConfig{}, classify("load", id, err)
	}
	cfg, err := s.decode(doc)
	if err != nil {
		return model.TemplateConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.loadSeq {
		s.logger.Debug("discarding stale load", zap.String("project_id", id), zap.Uint64("token", token), zap.Uint64("latest", s.loadSeq))
		return model.TemplateConfig{}, ErrStaleResponse
	}
	s.current = cfg
	s.projectID = doc.ID
	s.name = doc.Name
	s.logger.Info("project loaded", zap.String("project_id", doc.ID), zap.String("name", doc.Name))
	return cfg.Clone(), nil
}

// LoadMostRecent loads the most recently updated project. It reports false,
// with no error, when the collection is empty.
func (s *ConfigStore) LoadMostRecent(ctx context.Context) (model.TemplateConfig, bool, error) {
	summaries, err := s.persist.List(ctx)
	if err != nil {
		return model.TemplateConfig{}, false, classify("list", "", err)
	}
	if len(summaries) == 0 {
		s.logger.Debug("no saved projects")
		return model.TemplateConfig{}, false, nil
	}
	cfg, err := s.Load(ctx, summaries[0].ID)
	if err != nil {
		return model.TemplateConfig{}, false, err
	}
	return cfg, true, nil
}

// List returns the saved project summaries, newest first.
func (s *ConfigStore) List(ctx context.Context) ([]persistence.Summary, error) {
	summaries, err := s.persist.List(ctx)
	if err != nil {
		return nil, classify("list", "", err)
	}
	return summaries, nil
}

// Save persists cfg under name. The first save inserts and binds the returned
// id; later saves update the bound project. cfg becomes the session document
// only once the write succeeds.
func (s *ConfigStore) Save(ctx context.Context, name string, cfg model.TemplateConfig) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &model.ValidationError{Issues: []model.Issue{{Path: "name", Message: "project name is required"}}}
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("store: encode config: %w", err)
	}

	s.mu.Lock()
	id := s.projectID
	s.mu.Unlock()

	if id == "" {
		doc, err := s.persist.Insert(ctx, name, payload)
		if err != nil {
			s.logger.Warn("insert project failed", zap.String("name", name), zap.Error(err))
			return "", classify("insert", "", err)
		}
		id = doc.ID
	} else if err := s.persist.Update(ctx, id, name, payload); err != nil {
		s.logger.Warn("update project failed", zap.String("project_id", id), zap.Error(err))
		return "", classify("update", id, err)
	}

	s.mu.Lock()
	s.current = cfg.Clone()
	s.projectID = id
	s.name = name
	s.mu.Unlock()

	s.logger.Info("project saved", zap.String("project_id", id), zap.String("name", name))
	return id, nil
}

// SaveCurrent saves the session document under name.
func (s *ConfigStore) SaveCurrent(ctx context.Context, name string) (string, error) {
	return s.Save(ctx, name, s.Snapshot())
}

// Merge replaces each top-level key named by p and returns the new snapshot.
// An invalid result leaves the session document unchanged.
func (s *ConfigStore) Merge(p model.Partial) (model.TemplateConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Apply(p)
	if err := next.Validate(); err != nil {
		return model.TemplateConfig{}, err
	}
	s.current = next
	s.logger.Debug("merged partial", zap.Strings("keys", p.Keys()))
	return next.Clone(), nil
}

// Reset restores the default document and unbinds the project.
func (s *ConfigStore) Reset() model.TemplateConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = model.Default()
	s.projectID = ""
	s.name = ""
	s.loadSeq++
	s.logger.Debug("session reset")
	return s.current.Clone()
}

func (s *ConfigStore) beginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	return s.loadSeq
}

func (s *ConfigStore) decode(doc persistence.Document) (model.TemplateConfig, error) {
	cfg, extras, err := model.DecodeWithExtras(doc.Config)
	if err != nil {
		s.logger.Warn("stored config is malformed", zap.String("project_id", doc.ID), zap.Error(err))
		return model.TemplateConfig{}, err
	}
	if len(extras) > 0 {
		s.logger.Debug("ignored unknown config keys", zap.String("project_id", doc.ID), zap.Strings("keys", extras))
	}
	if s.pruneOnLoad {
		if p, removed := model.PruneDanglingPlacements(cfg); removed > 0 {
			cfg = cfg.Apply(p)
			s.logger.Info("pruned dangling placements", zap.String("project_id", doc.ID), zap.Int("removed", removed))
		}
	}
	return cfg, nil
}
