package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clearpoint/internal/redact"
	"clearpoint/internal/service"
	"clearpoint/internal/tabular"
)

// RedactHandler handles the document redaction endpoint.
type RedactHandler struct {
	redactService service.RedactService
}

// NewRedactHandler creates a new RedactHandler.
func NewRedactHandler(redactService service.RedactService) *RedactHandler {
	return &RedactHandler{redactService: redactService}
}

// Redact handles POST /api/v1/redact
//
// The form carries the file plus either pattern flags (redact_emails,
// redact_phones, redact_ssn, custom_terms) or a regions JSON array with
// preview-pixel coordinates. The response is the redacted artifact itself.
func (h *RedactHandler) Redact(c *gin.Context) {
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

	var regions []redact.Region
	if raw := c.PostForm("regions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &regions); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "regions must be a JSON array of {page,x,y,w,h}")
			return
		}
	}

	input := redact.Input{
		Filename: header.Filename,
		Data:     data,
		Patterns: redact.PatternOptions{
			Emails:      formFlag(c, "redact_emails"),
			Phones:      formFlag(c, "redact_phones"),
			SSNs:        formFlag(c, "redact_ssn"),
			CustomTerms: tabular.SplitColumns(c.PostForm("custom_terms")),
		},
		Regions: regions,
	}

	output, err := h.redactService.Redact(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if output.NonTargeted {
		c.Header("X-Redaction-Precision", "non-targeted")
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.Filename))
	c.Data(http.StatusOK, output.ContentType, output.Data)
}

// formFlag reads a boolean form field, accepting both "1" and "true".
func formFlag(c *gin.Context, key string) bool {
	v := c.PostForm(key)
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	n, err := strconv.Atoi(v)
	return err == nil && n != 0
}
