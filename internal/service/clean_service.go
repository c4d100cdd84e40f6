package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"clearpoint/internal/domain"
	"clearpoint/internal/port"
	"clearpoint/internal/tabular"
)

// CleanInput is the DTO for cleaning requests.
type CleanInput struct {
	Filename     string
	Data         []byte
	EmailColumns []string
	PhoneColumns []string
	KeyColumns   []string
}

// CleanOutput is the result of a cleaning pass: the summary counters, the
// display preview, and the full cleaned table for the caller to encode.
type CleanOutput struct {
	Summary tabular.Summary `json:"summary"`
	Columns []string        `json:"columns"`
	Preview []tabular.Row   `json:"preview"`
	Rows    []tabular.Row   `json:"-"`
	RunID   *uuid.UUID      `json:"run_id,omitempty"`
}

// CleanService runs the cleaning pipeline and records runs for their owner.
type CleanService interface {
	Clean(ctx context.Context, ownerID uuid.UUID, input CleanInput) (*CleanOutput, error)
}

type cleanService struct {
	runRepo  port.RunRepository
	maxBytes int64
}

// NewCleanService creates a new CleanService. runRepo may be nil, in which
// case runs are not recorded.
func NewCleanService(runRepo port.RunRepository, maxBytes int64) CleanService {
	return &cleanService{runRepo: runRepo, maxBytes: maxBytes}
}

func (s *cleanService) Clean(ctx context.Context, ownerID uuid.UUID, input CleanInput) (*CleanOutput, error) {
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	table, err := tabular.ParseCSV(input.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}

	result := tabular.Clean(table, tabular.Options{
		EmailColumns: input.EmailColumns,
		PhoneColumns: input.PhoneColumns,
		KeyColumns:   input.KeyColumns,
	})

	out := &CleanOutput{
		Summary: result.Summary,
		Columns: result.Columns,
		Preview: result.Preview,
		Rows:    result.Rows,
	}

	// Record the run for authenticated callers. The cleaned data is already
	// in hand, so a failed insert degrades to a missing history entry.
	if s.runRepo != nil && ownerID != uuid.Nil {
		run := &domain.Run{
			OwnerUserID:       ownerID,
			RowsIn:            result.Summary.RowsIn,
			RowsOut:           result.Summary.RowsOut,
			DuplicatesRemoved: result.Summary.DuplicatesRemoved,
			InvalidEmails:     result.Summary.InvalidEmails,
			InvalidPhones:     result.Summary.InvalidPhones,
			ColumnsCSV:        strings.Join(result.Columns, ","),
		}
		if err := s.runRepo.Create(ctx, run); err != nil {
			log.Printf("WARNING: failed to record run for user %s: %v", ownerID, err)
		} else {
			out.RunID = &run.ID
		}
	}

	return out, nil
}
