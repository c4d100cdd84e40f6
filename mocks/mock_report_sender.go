package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clearpoint/internal/port"
)

// MockReportSender is a mock implementation of port.ReportSender.
type MockReportSender struct {
	mock.Mock
}

func (m *MockReportSender) SendCleanReport(ctx context.Context, toEmail string, report port.CleanReport) error {
	args := m.Called(ctx, toEmail, report)
	return args.Error(0)
}
