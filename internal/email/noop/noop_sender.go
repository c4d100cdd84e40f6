package noop

import (
	"context"
	"log"

	"clearpoint/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op ReportSender that logs instead of sending.
func NewNoopSender() port.ReportSender {
	return &noopSender{}
}

func (s *noopSender) SendCleanReport(_ context.Context, toEmail string, report port.CleanReport) error {
	log.Printf("[NOOP EMAIL] Clean report for %s: %d rows in, %d out, %d duplicates removed, attachment %s (%d bytes)",
		toEmail, report.Summary.RowsIn, report.Summary.RowsOut,
		report.Summary.DuplicatesRemoved, report.AttachmentName, len(report.Attachment))
	return nil
}
