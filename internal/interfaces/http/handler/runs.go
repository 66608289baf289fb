package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recon/backend/internal/application/ingest"
	"github.com/recon/backend/internal/domain/runhistory"
	"github.com/recon/backend/internal/interfaces/http/dto"
)

// RunsHandler exposes the normalization run history.
type RunsHandler struct {
	BaseHandler
	service *ingest.Service
}

// NewRunsHandler creates a new RunsHandler
func NewRunsHandler(service *ingest.Service) *RunsHandler {
	return &RunsHandler{service: service}
}

// RegisterRoutes registers the run history endpoints
func (h *RunsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/runs")
	{
		group.GET("", h.ListRuns)
		group.GET("/:id", h.GetRun)
	}
}

// listRunsRequest holds the query parameters for listing runs.
type listRunsRequest struct {
	dto.ListRequest
	Dataset string `form:"dataset" binding:"omitempty,oneof=orders shipments tracking"`
	Status  string `form:"status" binding:"omitempty,oneof=pending processing completed failed"`
	StoreID string `form:"store_id"`
	SortBy  string `form:"sort_by"`
	Order   string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ListRuns handles GET /runs
func (h *RunsHandler) ListRuns(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Valid X-Tenant-ID header is required")
		return
	}

	req := listRunsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := runhistory.RunFilter{
		SortBy:    req.SortBy,
		SortOrder: req.Order,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Dataset != "" {
		dataset := runhistory.DatasetKind(req.Dataset)
		filter.Dataset = &dataset
	}
	if req.Status != "" {
		status := runhistory.RunStatus(req.Status)
		filter.Status = &status
	}
	if req.StoreID != "" {
		filter.StoreID = &req.StoreID
	}

	runs, total, err := h.service.ListRuns(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, runs, total, req.Limit, req.Offset)
}

// GetRun handles GET /runs/:id
func (h *RunsHandler) GetRun(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Valid X-Tenant-ID header is required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}
	runID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), tenantID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}
