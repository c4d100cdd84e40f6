package port

import (
	"context"

	"clearpoint/internal/tabular"
)

// CleanReport is the payload of a run-report email: the summary counters from
// a cleaning pass plus the cleaned CSV as an attachment.
type CleanReport struct {
	Summary        tabular.Summary
	AttachmentName string
	Attachment     []byte
}

// ReportSender defines the contract for emailing run reports.
type ReportSender interface {
	SendCleanReport(ctx context.Context, toEmail string, report CleanReport) error
}
