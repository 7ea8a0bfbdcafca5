package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Darkelvar/transaction-processor/internal/domain/entity"
	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/domain/port/persistence"
)

// RequiredColumns is the header column set every uploaded batch must carry
var RequiredColumns = []string{
	"transaction_id",
	"timestamp",
	"amount",
	"currency",
	"customer_id",
	"product_id",
	"quantity",
}

// Service runs one uploaded CSV batch to completion: header precondition,
// then a single sequential pass that validates and persists each row
// independently. Row failures never abort the batch; only a missing header
// column does, before any row is touched.
type Service struct {
	repo         persistence.TransactionRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new batch ingestion service
func NewService(
	repo persistence.TransactionRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ProcessBatch parses raw CSV text, persists every row that validates, and
// returns the per-row report. Rows are 1-indexed in source order.
func (s *Service) ProcessBatch(ctx context.Context, contents string) (*entity.BatchReport, error) {
	reader := csv.NewReader(strings.NewReader(contents))
	reader.TrimLeadingSpace = true
	// Uneven rows are reported per-row instead of aborting the batch
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read CSV header: %s", errs.ErrInvalidRequest, err.Error())
	}

	columnIndex, err := s.checkHeader(header)
	if err != nil {
		s.logger.Error("Batch rejected before processing", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	report := entity.NewBatchReport()
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			report.RecordFailure(rowNum, fmt.Errorf("row %d: malformed CSV line: %w", rowNum, err))
			continue
		}

		if err := s.processRow(ctx, columnIndex, row, rowNum); err != nil {
			s.logger.Warn("Row failed", map[string]any{
				"row":   rowNum,
				"error": err.Error(),
			})
			report.RecordFailure(rowNum, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}

		report.RecordSuccess()
	}

	s.logger.Info("Batch processed", map[string]any{
		"all_rows":      report.AllRows,
		"imported_rows": report.ImportedRows,
		"failed_rows":   len(report.FailedRows),
	})

	return report, nil
}

// checkHeader verifies the required column set is a subset of the parsed
// header and returns the column position index
func (s *Service) checkHeader(header []string) (map[string]int, error) {
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := columnIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &errs.MissingColumnsError{Columns: missing}
	}

	return columnIndex, nil
}

// processRow builds a candidate record from raw string fields, validates it
// and persists it. Persistence failures (duplicate or transient) surface as
// classified errors; the row write is fully rolled back on any failure.
func (s *Service) processRow(ctx context.Context, columnIndex map[string]int, row []string, rowNum int) error {
	field := func(name string) string {
		idx := columnIndex[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	transaction, err := entity.NewTransaction(entity.RawTransaction{
		TransactionID: field("transaction_id"),
		Timestamp:     field("timestamp"),
		Amount:        field("amount"),
		Currency:      field("currency"),
		CustomerID:    field("customer_id"),
		ProductID:     field("product_id"),
		Quantity:      field("quantity"),
	}, s.timeProvider)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, transaction)
}
