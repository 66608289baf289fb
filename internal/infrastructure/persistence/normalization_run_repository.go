package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recon/backend/internal/domain/runhistory"
	"github.com/recon/backend/internal/domain/shared"
	"github.com/recon/backend/internal/infrastructure/persistence/models"
)

// GormNormalizationRunRepository implements runhistory.Repository using GORM
type GormNormalizationRunRepository struct {
	db *gorm.DB
}

// NewGormNormalizationRunRepository creates a new GormNormalizationRunRepository
func NewGormNormalizationRunRepository(db *gorm.DB) *GormNormalizationRunRepository {
	return &GormNormalizationRunRepository{db: db}
}

// Save inserts a new normalization run
func (r *GormNormalizationRunRepository) Save(ctx context.Context, run *runhistory.NormalizationRun) error {
	model := models.NormalizationRunModelFromDomain(run)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists the current state of an existing run
func (r *GormNormalizationRunRepository) Update(ctx context.Context, run *runhistory.NormalizationRun) error {
	model := models.NormalizationRunModelFromDomain(run)
	result := r.db.WithContext(ctx).
		Model(&models.NormalizationRunModel{}).
		Where("tenant_id = ? AND id = ?", run.TenantID, run.ID).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a normalization run by ID scoped to its tenant
func (r *GormNormalizationRunRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*runhistory.NormalizationRun, error) {
	var model models.NormalizationRunModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a tenant's runs with filtering and pagination, newest first
func (r *GormNormalizationRunRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	filter runhistory.RunFilter,
) ([]*runhistory.NormalizationRun, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NormalizationRunModel{}).
		Where("tenant_id = ?", tenantID)

	query = r.applyFilters(query, filter)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	sortField := ValidateSortField(filter.SortBy, RunSortFields, "started_at")
	orderClause := sortField + " " + ValidateSortOrder(filter.SortOrder)
	if sortField == "started_at" || sortField == "completed_at" {
		orderClause += " NULLS LAST"
	}
	query = query.Order(orderClause).Order("created_at DESC")

	var runModels []models.NormalizationRunModel
	if err := query.Find(&runModels).Error; err != nil {
		return nil, 0, err
	}

	runs := make([]*runhistory.NormalizationRun, len(runModels))
	for i := range runModels {
		runs[i] = runModels[i].ToDomain()
	}

	return runs, totalCount, nil
}

// applyFilters applies filter options to the query
func (r *GormNormalizationRunRepository) applyFilters(query *gorm.DB, filter runhistory.RunFilter) *gorm.DB {
	if filter.Dataset != nil {
		query = query.Where("dataset = ?", *filter.Dataset)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	return query
}

// Compile-time interface compliance check
var _ runhistory.Repository = (*GormNormalizationRunRepository)(nil)
