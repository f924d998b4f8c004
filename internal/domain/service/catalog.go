package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
)

// ErrModelNotFound is returned when a model identifier is not in the catalog.
var ErrModelNotFound = errors.New("scoring model not found")

// Catalog is the read-only set of scoring models, keyed by ID. It is built once
// at startup and may be shared by any number of goroutines without locking.
type Catalog struct {
	models map[string]model.ScoringModel
	ids    []string
}

// NewCatalog validates the models and builds a catalog. Duplicate IDs are rejected.
func NewCatalog(models ...model.ScoringModel) (*Catalog, error) {
	c := &Catalog{
		models: make(map[string]model.ScoringModel, len(models)),
		ids:    make([]string, 0, len(models)),
	}
	for _, m := range models {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("invalid scoring model: %w", err)
		}
		if _, exists := c.models[m.ID]; exists {
			return nil, fmt.Errorf("duplicate scoring model %s", m.ID)
		}
		c.models[m.ID] = m.Clone()
		c.ids = append(c.ids, m.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// DefaultCatalog returns a catalog of the built-in models.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(BuiltinModels()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns a copy of the model with the given ID.
func (c *Catalog) Get(id string) (model.ScoringModel, error) {
	m, ok := c.models[id]
	if !ok {
		return model.ScoringModel{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return m.Clone(), nil
}

// List returns copies of all models ordered by ID.
func (c *Catalog) List() []model.ScoringModel {
	out := make([]model.ScoringModel, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.models[id].Clone())
	}
	return out
}

// IDs returns the model identifiers in sorted order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}
