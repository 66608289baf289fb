package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recon/backend/internal/application/ingest"
	"github.com/recon/backend/internal/domain/normalize"
	"github.com/recon/backend/internal/infrastructure/tabular"
	"github.com/recon/backend/internal/interfaces/http/dto"
)

// IngestHandler exposes the three normalization endpoints. Each accepts
// either a multipart CSV upload (field "file") or a JSON body with
// pre-parsed rows.
type IngestHandler struct {
	BaseHandler
	service     *ingest.Service
	maxFileSize int64
	maxRows     int
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(service *ingest.Service, maxFileSize int64, maxRows int) *IngestHandler {
	return &IngestHandler{
		service:     service,
		maxFileSize: maxFileSize,
		maxRows:     maxRows,
	}
}

// RegisterRoutes registers the ingestion endpoints
func (h *IngestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/ingest")
	{
		group.POST("/orders", h.IngestOrders)
		group.POST("/shipments", h.IngestShipments)
		group.POST("/tracking", h.IngestTracking)
	}
}

// ingestJSONRequest is the JSON alternative to a CSV upload.
type ingestJSONRequest struct {
	StoreID      string             `json:"store_id" binding:"required"`
	PlatformHint string             `json:"platform_hint"`
	FileName     string             `json:"file_name"`
	Rows         []normalize.RawRow `json:"rows"`
}

// upload is what both intake formats reduce to.
type upload struct {
	storeID      string
	platformHint string
	fileName     string
	fileSize     int64
	rows         []normalize.RawRow
}

// readUpload extracts rows from the request, preferring a multipart file
// when one is present.
func (h *IngestHandler) readUpload(c *gin.Context) (*upload, bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.readMultipart(c)
	}
	return h.readJSON(c)
}

func (h *IngestHandler) readMultipart(c *gin.Context) (*upload, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file in multipart request")
		return nil, false
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.PayloadTooLarge(c, "Uploaded file exceeds the maximum allowed size")
		return nil, false
	}

	storeID := c.PostForm("store_id")
	if storeID == "" {
		h.BadRequest(c, "store_id form field is required")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidFile, "Failed to open uploaded file")
		return nil, false
	}
	defer file.Close()

	rows, err := tabular.ParseTable(file, tabular.WithMaxRows(h.maxRows))
	if err != nil {
		switch {
		case errors.Is(err, tabular.ErrEmptyFile), errors.Is(err, tabular.ErrMissingHeader):
			// An empty upload is not a transport error: the pipelines own
			// the empty-input behavior, including its report messages.
			rows = nil
		case errors.Is(err, tabular.ErrTooManyRows):
			h.PayloadTooLarge(c, "Uploaded file exceeds the maximum allowed row count")
			return nil, false
		default:
			h.Error(c, 400, dto.ErrCodeInvalidFile, err.Error())
			return nil, false
		}
	}

	return &upload{
		storeID:      storeID,
		platformHint: c.PostForm("platform_hint"),
		fileName:     fileHeader.Filename,
		fileSize:     fileHeader.Size,
		rows:         rows,
	}, true
}

func (h *IngestHandler) readJSON(c *gin.Context) (*upload, bool) {
	var req ingestJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return nil, false
	}

	if h.maxRows > 0 && len(req.Rows) > h.maxRows {
		h.PayloadTooLarge(c, "Request exceeds the maximum allowed row count")
		return nil, false
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "inline.json"
	}

	return &upload{
		storeID:      req.StoreID,
		platformHint: req.PlatformHint,
		fileName:     fileName,
		fileSize:     c.Request.ContentLength,
		rows:         req.Rows,
	}, true
}

// IngestOrders handles POST /ingest/orders
func (h *IngestHandler) IngestOrders(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Valid X-Tenant-ID header is required")
		return
	}

	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	outcome, err := h.service.IngestOrders(c.Request.Context(), ingest.OrdersCommand{
		UploadMeta: ingest.UploadMeta{
			TenantID: tenantID,
			StoreID:  up.storeID,
			FileName: up.fileName,
			FileSize: up.fileSize,
		},
		PlatformHint: up.platformHint,
		Rows:         up.rows,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outcome)
}

// IngestShipments handles POST /ingest/shipments
func (h *IngestHandler) IngestShipments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Valid X-Tenant-ID header is required")
		return
	}

	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	outcome, err := h.service.IngestShipments(c.Request.Context(), ingest.TableCommand{
		UploadMeta: ingest.UploadMeta{
			TenantID: tenantID,
			StoreID:  up.storeID,
			FileName: up.fileName,
			FileSize: up.fileSize,
		},
		Rows: up.rows,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outcome)
}

// IngestTracking handles POST /ingest/tracking
func (h *IngestHandler) IngestTracking(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Valid X-Tenant-ID header is required")
		return
	}

	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	outcome, err := h.service.IngestTracking(c.Request.Context(), ingest.TableCommand{
		UploadMeta: ingest.UploadMeta{
			TenantID: tenantID,
			StoreID:  up.storeID,
			FileName: up.fileName,
			FileSize: up.fileSize,
		},
		Rows: up.rows,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outcome)
}
