package port

import (
	"context"

	"github.com/google/uuid"

	"faxfhir/internal/domain"
)

// ResultFilter narrows List queries.
type ResultFilter struct {
	NeedsReview *bool
	Status      string
	Limit       int
	Offset      int
}

// ResultRepository persists processing results and serves the aggregate
// statistics view.
type ResultRepository interface {
	Create(ctx context.Context, result *domain.ProcessingResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingResult, error)
	List(ctx context.Context, filter ResultFilter) ([]domain.ProcessingResult, error)
	GetStats(ctx context.Context) (*domain.Stats, error)
}
