package usecase

import (
	"context"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
)

// ListModels is the use case for describing the model catalog.
type ListModels struct {
	catalog *service.Catalog
}

// NewListModels creates a new ListModels use case.
func NewListModels(catalog *service.Catalog) *ListModels {
	return &ListModels{catalog: catalog}
}

// Execute returns a summary of every model, ordered by ID.
func (uc *ListModels) Execute(_ context.Context, _ dto.ListModelsRequest) ([]dto.ModelSummary, error) {
	models := uc.catalog.List()
	out := make([]dto.ModelSummary, len(models))
	for i, m := range models {
		out[i] = dto.FromModel(m)
	}
	return out, nil
}
