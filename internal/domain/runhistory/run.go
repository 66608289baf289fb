// Package runhistory records every normalization run so tenants can audit
// what was uploaded, how many rows survived, and what the validation
// report said.
package runhistory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/recon/backend/internal/domain/shared"
)

// DatasetKind identifies which canonical table a run produced.
type DatasetKind string

const (
	DatasetOrders    DatasetKind = "orders"
	DatasetShipments DatasetKind = "shipments"
	DatasetTracking  DatasetKind = "tracking"
)

// IsValid checks if the dataset kind is known
func (k DatasetKind) IsValid() bool {
	switch k {
	case DatasetOrders, DatasetShipments, DatasetTracking:
		return true
	}
	return false
}

// RunStatus represents the lifecycle state of a normalization run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// IsValid checks if the status is known
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusProcessing, RunStatusCompleted, RunStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// NormalizationRun tracks one upload through the pipeline: counts before
// and after filtering plus the advisory validation messages.
type NormalizationRun struct {
	shared.TenantAggregateRoot
	Dataset          DatasetKind `json:"dataset"`
	StoreID          string      `json:"store_id"`
	FileName         string      `json:"file_name"`
	FileSize         int64       `json:"file_size"`
	InputRows        int         `json:"input_rows"`
	OutputRows       int         `json:"output_rows"`
	DroppedRows      int         `json:"dropped_rows"`
	ValidationErrors []string    `json:"validation_errors"`
	Status           RunStatus   `json:"status"`
	FailureReason    string      `json:"failure_reason,omitempty"`
	StartedAt        *time.Time  `json:"started_at,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

// NewNormalizationRun creates a pending run record for one upload
func NewNormalizationRun(tenantID uuid.UUID, dataset DatasetKind, storeID, fileName string, fileSize int64) (*NormalizationRun, error) {
	if !dataset.IsValid() {
		return nil, shared.NewDomainError("INVALID_DATASET", fmt.Sprintf("Invalid dataset kind: %s", dataset))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	run := &NormalizationRun{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Dataset:             dataset,
		StoreID:             storeID,
		FileName:            fileName,
		FileSize:            fileSize,
		ValidationErrors:    make([]string, 0),
		Status:              RunStatusPending,
	}

	return run, nil
}

// Start marks the run as processing and records the parsed row count
func (r *NormalizationRun) Start(inputRows int) error {
	if r.Status != RunStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start from state: %s", r.Status))
	}
	if inputRows < 0 {
		return shared.NewDomainError("INVALID_INPUT_ROWS", "Input rows cannot be negative")
	}

	r.Status = RunStatusProcessing
	r.InputRows = inputRows
	now := time.Now()
	r.StartedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Complete records the surviving row count and the validation report.
// Validation messages are advisory; a run with messages still completes.
func (r *NormalizationRun) Complete(outputRows int, validationErrors []string) error {
	if r.Status != RunStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", r.Status))
	}
	if outputRows < 0 || outputRows > r.InputRows {
		return shared.NewDomainError("INVALID_OUTPUT_ROWS", "Output rows must be between zero and the input row count")
	}

	r.Status = RunStatusCompleted
	r.OutputRows = outputRows
	r.DroppedRows = r.InputRows - outputRows
	r.ValidationErrors = validationErrors
	if r.ValidationErrors == nil {
		r.ValidationErrors = make([]string, 0)
	}
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Fail marks the run as failed with a reason, e.g. an unreadable file
func (r *NormalizationRun) Fail(reason string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", r.Status))
	}

	r.Status = RunStatusFailed
	r.FailureReason = reason
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// HasValidationErrors returns true if the run produced advisory messages
func (r *NormalizationRun) HasValidationErrors() bool {
	return len(r.ValidationErrors) > 0
}

// ValidationErrorsJSON returns the validation messages as a JSON string
func (r *NormalizationRun) ValidationErrorsJSON() (string, error) {
	if len(r.ValidationErrors) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(r.ValidationErrors)
	if err != nil {
		return "", fmt.Errorf("failed to marshal validation errors: %w", err)
	}
	return string(data), nil
}

// SetValidationErrorsFromJSON parses validation messages from a JSON string
func (r *NormalizationRun) SetValidationErrorsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		r.ValidationErrors = make([]string, 0)
		return nil
	}
	var msgs []string
	if err := json.Unmarshal([]byte(jsonStr), &msgs); err != nil {
		return fmt.Errorf("failed to unmarshal validation errors: %w", err)
	}
	r.ValidationErrors = msgs
	return nil
}

// Duration returns how long the run took, or time since start if still running
func (r *NormalizationRun) Duration() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if r.CompletedAt != nil {
		end = *r.CompletedAt
	}
	return end.Sub(*r.StartedAt)
}
