package excel

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"clearpoint/internal/port"
	"clearpoint/internal/tabular"
)

const sheetName = "Cleaned Data"

type excelExporter struct {
	storage       port.ObjectStorage
	bucket        string
	presignExpiry int64
}

// NewExcelExporter creates a SheetExporter that builds an xlsx workbook,
// uploads it to object storage, and returns a presigned download link.
func NewExcelExporter(storage port.ObjectStorage, bucket string, presignExpirySeconds int64) port.SheetExporter {
	return &excelExporter{
		storage:       storage,
		bucket:        bucket,
		presignExpiry: presignExpirySeconds,
	}
}

func (e *excelExporter) Export(ctx context.Context, columns []string, rows []tabular.Row) (*port.SheetExport, error) {
	title := "Cleaned " + time.Now().UTC().Format("2006-01-02 15:04")

	data, err := BuildWorkbook(title, columns, rows)
	if err != nil {
		return nil, fmt.Errorf("excelExporter.Export: %w", err)
	}

	key := fmt.Sprintf("exports/%s.xlsx", uuid.New().String())
	_, err = e.storage.Upload(ctx, port.UploadInput{
		Bucket:      e.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return nil, fmt.Errorf("excelExporter.Export: uploading workbook: %w", err)
	}

	url, err := e.storage.GetPresignedURL(ctx, e.bucket, key, e.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("excelExporter.Export: presigning workbook: %w", err)
	}

	return &port.SheetExport{
		Key:          key,
		SheetTitle:   title,
		PresignedURL: url,
	}, nil
}

// BuildWorkbook renders the cleaned rows into a single-sheet xlsx file. The
// title lands in cell A1 with the header row beneath it.
func BuildWorkbook(title string, columns []string, rows []tabular.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+3)
			if err != nil {
				return nil, err
			}
			value := ""
			if v := row[col]; v != nil {
				value = *v
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
