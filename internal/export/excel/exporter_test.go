package excel_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"clearpoint/internal/export/excel"
	"clearpoint/internal/port"
	"clearpoint/internal/tabular"
	"clearpoint/mocks"
)

func sampleRows() ([]string, []tabular.Row) {
	alice := "alice@example.com"
	bob := "bob@example.com"
	phone := "+15551234567"
	return []string{"email", "phone"}, []tabular.Row{
		{"email": &alice, "phone": &phone},
		{"email": &bob, "phone": nil},
	}
}

func TestBuildWorkbook_LaysOutTitleHeaderAndRows(t *testing.T) {
	columns, rows := sampleRows()

	data, err := excel.BuildWorkbook("Cleaned 2026-08-29 12:00", columns, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Cleaned 2026-08-29 12:00", title)

	header, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "email", header)

	cell, err := f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", cell)

	// nil cells serialize as blank
	blank, err := f.GetCellValue(sheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "", blank)
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	columns, rows := sampleRows()

	mockStorage := new(mocks.MockObjectStorage)
	mockStorage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "s3://clearpoint-exports/exports/x.xlsx"}, nil)
	mockStorage.On("GetPresignedURL", mock.Anything, "clearpoint-exports", mock.AnythingOfType("string"), int64(3600)).
		Return("https://s3.example.com/signed", nil)

	exporter := excel.NewExcelExporter(mockStorage, "clearpoint-exports", 3600)

	export, err := exporter.Export(context.Background(), columns, rows)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(export.Key, "exports/"))
	assert.True(t, strings.HasSuffix(export.Key, ".xlsx"))
	assert.True(t, strings.HasPrefix(export.SheetTitle, "Cleaned "))
	assert.Equal(t, "https://s3.example.com/signed", export.PresignedURL)

	upload := mockStorage.Calls[0].Arguments.Get(1).(port.UploadInput)
	assert.Equal(t, "clearpoint-exports", upload.Bucket)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", upload.ContentType)
	mockStorage.AssertExpectations(t)
}

func TestExport_UploadFailure(t *testing.T) {
	columns, rows := sampleRows()

	mockStorage := new(mocks.MockObjectStorage)
	mockStorage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, assert.AnError)

	exporter := excel.NewExcelExporter(mockStorage, "clearpoint-exports", 3600)

	_, err := exporter.Export(context.Background(), columns, rows)
	assert.Error(t, err)
}
