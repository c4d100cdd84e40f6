package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"clearpoint/internal/csvexport"
	"clearpoint/internal/middleware"
	"clearpoint/internal/service"
	"clearpoint/internal/tabular"
)

// CleanHandler handles the CSV cleaning endpoint.
type CleanHandler struct {
	cleanService service.CleanService
}

// NewCleanHandler creates a new CleanHandler.
func NewCleanHandler(cleanService service.CleanService) *CleanHandler {
	return &CleanHandler{cleanService: cleanService}
}

// cleanResponse is the payload returned for a successful clean: the summary,
// the display preview, and the full cleaned CSV as text.
type cleanResponse struct {
	*service.CleanOutput
	CSV      string `json:"csv"`
	Filename string `json:"filename"`
}

// Clean handles POST /api/v1/clean
func (h *CleanHandler) Clean(c *gin.Context) {
	// Anonymous callers get uuid.Nil and no run record.
	userID, _ := middleware.GetUserID(c)

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

	input := service.CleanInput{
		Filename:     header.Filename,
		Data:         data,
		EmailColumns: tabular.SplitColumns(c.PostForm("email_columns")),
		PhoneColumns: tabular.SplitColumns(c.PostForm("phone_columns")),
		KeyColumns:   tabular.SplitColumns(c.PostForm("key_columns")),
	}

	output, err := h.cleanService.Clean(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	csvText, err := tabular.WriteCSV(output.Columns, output.Rows)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cleanResponse{
		CleanOutput: output,
		CSV:         string(csvText),
		Filename:    csvexport.BuildFilename(header.Filename),
	})
}
