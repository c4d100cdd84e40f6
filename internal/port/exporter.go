package port

import (
	"context"

	"clearpoint/internal/tabular"
)

// SheetExport is the result of a spreadsheet export: where the workbook went
// and a link the caller can hand out.
type SheetExport struct {
	Key          string
	SheetTitle   string
	PresignedURL string
}

// SheetExporter writes cleaned rows to a spreadsheet workbook and stores it.
type SheetExporter interface {
	Export(ctx context.Context, columns []string, rows []tabular.Row) (*SheetExport, error)
}
