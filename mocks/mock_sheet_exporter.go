package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clearpoint/internal/port"
	"clearpoint/internal/tabular"
)

// MockSheetExporter is a mock implementation of port.SheetExporter.
type MockSheetExporter struct {
	mock.Mock
}

func (m *MockSheetExporter) Export(ctx context.Context, columns []string, rows []tabular.Row) (*port.SheetExport, error) {
	args := m.Called(ctx, columns, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.SheetExport), args.Error(1)
}
