package runhistory

import (
	"context"

	"github.com/google/uuid"
)

// RunFilter narrows run listings. SortBy and SortOrder are advisory:
// implementations validate them against their own whitelist and fall
// back to newest-first ordering.
type RunFilter struct {
	Dataset   *DatasetKind
	Status    *RunStatus
	StoreID   *string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Repository persists normalization runs per tenant.
type Repository interface {
	Save(ctx context.Context, run *NormalizationRun) error
	Update(ctx context.Context, run *NormalizationRun) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*NormalizationRun, error)
	List(ctx context.Context, tenantID uuid.UUID, filter RunFilter) ([]*NormalizationRun, int64, error)
}
