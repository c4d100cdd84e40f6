package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clearpoint/internal/service"
	"clearpoint/internal/tabular"
)

// RunHandler handles run history and delivery endpoints.
type RunHandler struct {
	runService      service.RunService
	deliveryService service.DeliveryService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runService service.RunService, deliveryService service.DeliveryService) *RunHandler {
	return &RunHandler{runService: runService, deliveryService: deliveryService}
}

// List handles GET /api/v1/runs
func (h *RunHandler) List(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, total, err := h.runService.List(c.Request.Context(), userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Deliver handles POST /api/v1/runs/deliver
//
// The form carries the cleaned CSV plus a recipient address and/or an
// export_sheet flag. Per-channel failures come back in the result body, not
// as HTTP errors.
func (h *RunHandler) Deliver(c *gin.Context) {
	if _, _, ok := extractAuthContext(c); !ok {
		return
	}

	recipient := c.PostForm("recipient")
	exportSheet := formFlag(c, "export_sheet")
	if recipient == "" && !exportSheet {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "at least one of recipient or export_sheet is required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "could not read uploaded file")
		return
	}

	table, err := tabular.ParseCSV(data)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "DOCUMENT_LOAD", "file could not be parsed as CSV")
		return
	}

	var summary tabular.Summary
	if raw := c.PostForm("summary"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "summary must be a JSON object")
			return
		}
	}

	result, err := h.deliveryService.Deliver(c.Request.Context(), service.DeliverInput{
		Recipient:   recipient,
		ExportSheet: exportSheet,
		Filename:    header.Filename,
		Columns:     table.Columns,
		Rows:        table.Rows,
		Summary:     summary,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
