// Package persistence defines the document collaborator the config store
// reads from and writes to. Implementations live in the memory, sqlite and
// rest subpackages.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no document has the requested id.
var ErrNotFound = errors.New("persistence: document not found")

// Status values mirror the project lifecycle of the hosted dashboard.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Document is one persisted project. Config holds the serialized
// TemplateConfig verbatim so implementations never reinterpret it.
type Document struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Config      json.RawMessage `json:"config"`
	Status      string          `json:"status"`
	DeployedURL string          `json:"deployed_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Summary is the list projection of a Document.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary projects d for listings.
func (d Document) Summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, Status: d.Status, UpdatedAt: d.UpdatedAt}
}

// Store is the collaborator contract. List returns summaries ordered by
// UpdatedAt descending. Insert assigns the id and both timestamps.
type Store interface {
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Summary, error)
	Insert(ctx context.Context, name string, config json.RawMessage) (Document, error)
	Update(ctx context.Context, id, name string, config json.RawMessage) error
}
