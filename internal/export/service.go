// Package export renders recognized records as an XLSX workbook for manual
// review outside the app.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/junwei-lu/tradescan/internal/record"
)

// Service produces XLSX bytes for a slice of records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RecordsXLSX returns an XLSX workbook (as bytes) with one row per record.
func (s *Service) RecordsXLSX(records []*record.TransactionRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Kind",
		"Item",
		"Quantity",
		"Unit Price",
		"Fee",
		"Total Amount",
		"Target Price",
		"Transaction Time",
		"Note",
		"Source Image",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, string(r.Kind))
		write(2, r.ItemName)
		write(3, r.Quantity)
		write(4, r.UnitPrice.StringFixed(2))
		write(5, r.Fee.StringFixed(2))
		write(6, r.TotalAmount.StringFixed(2))
		if !r.TargetPrice.IsZero() {
			write(7, r.TargetPrice.StringFixed(2))
		}
		if !r.TxTime.IsZero() {
			write(8, r.TxTime.Format("2006-01-02 15:04:05"))
		}
		write(9, r.Note)
		write(10, r.SourceImage)
		row++
	}

	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export.xlsx.done", "rows", len(records), "bytes", buf.Len(), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
