// Package ingest orchestrates one upload through parse, normalization,
// and run-history recording.
package ingest

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recon/backend/internal/domain/normalize"
	"github.com/recon/backend/internal/domain/runhistory"
)

// Defaults are the tenant-independent fallbacks stamped onto rows that do
// not carry their own values.
type Defaults struct {
	Currency         string
	PromisedShipDays int
}

// UploadMeta identifies the tenant and the file behind one ingestion.
type UploadMeta struct {
	TenantID uuid.UUID
	StoreID  string
	FileName string
	FileSize int64
}

// OrdersCommand is one orders upload ready for normalization.
type OrdersCommand struct {
	UploadMeta
	PlatformHint string
	Rows         []normalize.RawRow
}

// TableCommand is one shipments or tracking upload ready for normalization.
type TableCommand struct {
	UploadMeta
	Rows []normalize.RawRow
}

// OrdersOutcome is the response payload for an orders ingestion.
type OrdersOutcome struct {
	RunID       uuid.UUID             `json:"run_id"`
	InputRows   int                   `json:"input_rows"`
	OutputRows  int                   `json:"output_rows"`
	DroppedRows int                   `json:"dropped_rows"`
	Lines       []normalize.OrderLine `json:"lines"`
	Report      normalize.Report      `json:"report"`
}

// ShipmentsOutcome is the response payload for a shipments ingestion.
type ShipmentsOutcome struct {
	RunID       uuid.UUID                `json:"run_id"`
	InputRows   int                      `json:"input_rows"`
	OutputRows  int                      `json:"output_rows"`
	DroppedRows int                      `json:"dropped_rows"`
	Lines       []normalize.ShipmentLine `json:"lines"`
	Report      normalize.Report         `json:"report"`
}

// TrackingOutcome is the response payload for a tracking ingestion.
type TrackingOutcome struct {
	RunID       uuid.UUID                 `json:"run_id"`
	InputRows   int                       `json:"input_rows"`
	OutputRows  int                       `json:"output_rows"`
	DroppedRows int                       `json:"dropped_rows"`
	Events      []normalize.TrackingEvent `json:"events"`
	Report      normalize.Report          `json:"report"`
}

// Service runs the normalization pipelines and records each run.
type Service struct {
	runs     runhistory.Repository
	defaults Defaults
	logger   *zap.Logger
}

// NewService creates a new ingest Service
func NewService(runs runhistory.Repository, defaults Defaults, logger *zap.Logger) *Service {
	return &Service{
		runs:     runs,
		defaults: defaults,
		logger:   logger,
	}
}

// IngestOrders normalizes one orders upload. Normalization itself cannot
// fail; the returned error covers only invalid upload metadata.
func (s *Service) IngestOrders(ctx context.Context, cmd OrdersCommand) (*OrdersOutcome, error) {
	run, err := s.beginRun(ctx, runhistory.DatasetOrders, cmd.UploadMeta, len(cmd.Rows))
	if err != nil {
		return nil, err
	}

	result := normalize.NormalizeOrders(cmd.Rows, normalize.OrdersParams{
		AccountID:               cmd.TenantID.String(),
		StoreID:                 cmd.StoreID,
		PlatformHint:            cmd.PlatformHint,
		DefaultCurrency:         s.defaults.Currency,
		DefaultPromisedShipDays: s.defaults.PromisedShipDays,
	})

	s.finishRun(ctx, run, len(result.Lines), result.Report)

	return &OrdersOutcome{
		RunID:       run.ID,
		InputRows:   run.InputRows,
		OutputRows:  run.OutputRows,
		DroppedRows: run.DroppedRows,
		Lines:       result.Lines,
		Report:      result.Report,
	}, nil
}

// IngestShipments normalizes one supplier shipments upload.
func (s *Service) IngestShipments(ctx context.Context, cmd TableCommand) (*ShipmentsOutcome, error) {
	run, err := s.beginRun(ctx, runhistory.DatasetShipments, cmd.UploadMeta, len(cmd.Rows))
	if err != nil {
		return nil, err
	}

	result := normalize.NormalizeShipments(cmd.Rows, normalize.TenantParams{
		AccountID: cmd.TenantID.String(),
		StoreID:   cmd.StoreID,
	})

	s.finishRun(ctx, run, len(result.Lines), result.Report)

	return &ShipmentsOutcome{
		RunID:       run.ID,
		InputRows:   run.InputRows,
		OutputRows:  run.OutputRows,
		DroppedRows: run.DroppedRows,
		Lines:       result.Lines,
		Report:      result.Report,
	}, nil
}

// IngestTracking normalizes one carrier tracking upload.
func (s *Service) IngestTracking(ctx context.Context, cmd TableCommand) (*TrackingOutcome, error) {
	run, err := s.beginRun(ctx, runhistory.DatasetTracking, cmd.UploadMeta, len(cmd.Rows))
	if err != nil {
		return nil, err
	}

	result := normalize.NormalizeTracking(cmd.Rows, normalize.TenantParams{
		AccountID: cmd.TenantID.String(),
		StoreID:   cmd.StoreID,
	})

	s.finishRun(ctx, run, len(result.Events), result.Report)

	return &TrackingOutcome{
		RunID:       run.ID,
		InputRows:   run.InputRows,
		OutputRows:  run.OutputRows,
		DroppedRows: run.DroppedRows,
		Events:      result.Events,
		Report:      result.Report,
	}, nil
}

// GetRun fetches one run scoped to its tenant.
func (s *Service) GetRun(ctx context.Context, tenantID, id uuid.UUID) (*runhistory.NormalizationRun, error) {
	return s.runs.FindByID(ctx, tenantID, id)
}

// ListRuns lists a tenant's runs, newest first.
func (s *Service) ListRuns(ctx context.Context, tenantID uuid.UUID, filter runhistory.RunFilter) ([]*runhistory.NormalizationRun, int64, error) {
	return s.runs.List(ctx, tenantID, filter)
}

func (s *Service) beginRun(ctx context.Context, dataset runhistory.DatasetKind, meta UploadMeta, inputRows int) (*runhistory.NormalizationRun, error) {
	run, err := runhistory.NewNormalizationRun(meta.TenantID, dataset, meta.StoreID, meta.FileName, meta.FileSize)
	if err != nil {
		return nil, err
	}
	if err := run.Start(inputRows); err != nil {
		return nil, err
	}

	// Run history is an audit trail, not a gate: a persistence failure is
	// logged and the normalized output is still returned to the caller.
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("failed to save normalization run",
			zap.String("run_id", run.ID.String()),
			zap.String("dataset", string(dataset)),
			zap.Error(err))
	}

	return run, nil
}

func (s *Service) finishRun(ctx context.Context, run *runhistory.NormalizationRun, outputRows int, report normalize.Report) {
	if err := run.Complete(outputRows, report.Errors); err != nil {
		s.logger.Warn("failed to complete normalization run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.runs.Update(ctx, run); err != nil {
		s.logger.Warn("failed to update normalization run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
	}
}
