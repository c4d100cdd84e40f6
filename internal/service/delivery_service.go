package service

import (
	"context"

	"clearpoint/internal/csvexport"
	"clearpoint/internal/domain"
	"clearpoint/internal/port"
	"clearpoint/internal/tabular"
)

// DeliverInput carries one cleaned table to its delivery channels.
type DeliverInput struct {
	Recipient   string // email address; empty skips the email channel
	ExportSheet bool
	Filename    string // original upload name, used for the attachment
	Columns     []string
	Rows        []tabular.Row
	Summary     tabular.Summary
}

// ChannelOutcome reports one delivery channel's result. Channel failures are
// carried here; Deliver itself does not return them as errors.
type ChannelOutcome struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SheetOutcome reports the spreadsheet channel's result.
type SheetOutcome struct {
	OK    bool   `json:"ok"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// DeliveryResult aggregates per-channel outcomes.
type DeliveryResult struct {
	Email *ChannelOutcome `json:"email,omitempty"`
	Sheet *SheetOutcome   `json:"sheet,omitempty"`
}

// DeliveryService sends cleaned data out: report email with CSV attachment,
// spreadsheet export, or both.
type DeliveryService interface {
	Deliver(ctx context.Context, input DeliverInput) (*DeliveryResult, error)
}

type deliveryService struct {
	sender   port.ReportSender
	exporter port.SheetExporter
}

// NewDeliveryService creates a new DeliveryService. Either dependency may be
// nil when the channel is not configured.
func NewDeliveryService(sender port.ReportSender, exporter port.SheetExporter) DeliveryService {
	return &deliveryService{sender: sender, exporter: exporter}
}

func (s *deliveryService) Deliver(ctx context.Context, input DeliverInput) (*DeliveryResult, error) {
	result := &DeliveryResult{}

	if input.Recipient != "" {
		result.Email = s.sendEmail(ctx, input)
	}
	if input.ExportSheet {
		result.Sheet = s.exportSheet(ctx, input)
	}
	return result, nil
}

func (s *deliveryService) sendEmail(ctx context.Context, input DeliverInput) *ChannelOutcome {
	if s.sender == nil {
		return &ChannelOutcome{Error: domain.ErrDeliveryNotConfigured.Error()}
	}
	attachment, err := csvexport.Encode(input.Columns, input.Rows)
	if err != nil {
		return &ChannelOutcome{Error: err.Error()}
	}
	report := port.CleanReport{
		Summary:        input.Summary,
		AttachmentName: csvexport.BuildFilename(input.Filename),
		Attachment:     attachment,
	}
	if err := s.sender.SendCleanReport(ctx, input.Recipient, report); err != nil {
		return &ChannelOutcome{Error: err.Error()}
	}
	return &ChannelOutcome{OK: true}
}

func (s *deliveryService) exportSheet(ctx context.Context, input DeliverInput) *SheetOutcome {
	if s.exporter == nil {
		return &SheetOutcome{Error: domain.ErrDeliveryNotConfigured.Error()}
	}
	export, err := s.exporter.Export(ctx, input.Columns, input.Rows)
	if err != nil {
		return &SheetOutcome{Error: err.Error()}
	}
	return &SheetOutcome{OK: true, Title: export.SheetTitle, URL: export.PresignedURL}
}
