package models

import (
	"time"

	"github.com/recon/backend/internal/domain/runhistory"
)

// NormalizationRunModel is the persistence model for the NormalizationRun
// domain entity.
type NormalizationRunModel struct {
	TenantAggregateModel
	Dataset          runhistory.DatasetKind `gorm:"type:varchar(20);not null;index"`
	StoreID          string                 `gorm:"type:varchar(100);not null;index"`
	FileName         string                 `gorm:"type:varchar(255);not null"`
	FileSize         int64                  `gorm:"not null;default:0"`
	InputRows        int                    `gorm:"not null;default:0"`
	OutputRows       int                    `gorm:"not null;default:0"`
	DroppedRows      int                    `gorm:"not null;default:0"`
	ValidationErrors string                 `gorm:"type:jsonb;default:'[]'"`
	Status           runhistory.RunStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	FailureReason    string                 `gorm:"type:text"`
	StartedAt        *time.Time             `gorm:"type:timestamptz"`
	CompletedAt      *time.Time             `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (NormalizationRunModel) TableName() string {
	return "normalization_runs"
}

// ToDomain converts the persistence model to a domain NormalizationRun entity.
func (m *NormalizationRunModel) ToDomain() *runhistory.NormalizationRun {
	run := &runhistory.NormalizationRun{
		Dataset:       m.Dataset,
		StoreID:       m.StoreID,
		FileName:      m.FileName,
		FileSize:      m.FileSize,
		InputRows:     m.InputRows,
		OutputRows:    m.OutputRows,
		DroppedRows:   m.DroppedRows,
		Status:        m.Status,
		FailureReason: m.FailureReason,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
	}
	m.PopulateTenantAggregateRoot(&run.TenantAggregateRoot)

	if m.ValidationErrors != "" {
		_ = run.SetValidationErrorsFromJSON(m.ValidationErrors)
	}

	return run
}

// FromDomain populates the persistence model from a domain NormalizationRun entity.
func (m *NormalizationRunModel) FromDomain(r *runhistory.NormalizationRun) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Dataset = r.Dataset
	m.StoreID = r.StoreID
	m.FileName = r.FileName
	m.FileSize = r.FileSize
	m.InputRows = r.InputRows
	m.OutputRows = r.OutputRows
	m.DroppedRows = r.DroppedRows
	m.Status = r.Status
	m.FailureReason = r.FailureReason
	m.StartedAt = r.StartedAt
	m.CompletedAt = r.CompletedAt

	if errorJSON, err := r.ValidationErrorsJSON(); err == nil {
		m.ValidationErrors = errorJSON
	} else {
		m.ValidationErrors = "[]"
	}
}

// NormalizationRunModelFromDomain creates a new persistence model from a domain entity.
func NormalizationRunModelFromDomain(r *runhistory.NormalizationRun) *NormalizationRunModel {
	m := &NormalizationRunModel{}
	m.FromDomain(r)
	return m
}
