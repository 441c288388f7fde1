// Package spreadsheet renders item exports as xlsx workbooks.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Ensure Writer implements domain.SpreadsheetWriter.
var _ domain.SpreadsheetWriter = (*Writer)(nil)

// SheetName is the single sheet every export holds.
const SheetName = "Tasks_and_Letters"

// DefaultHeaders are the column titles, in column order.
var DefaultHeaders = []string{"Name", "Detail", "Type", "Status", "Priority", "Creation Date", "Due Date", "Result"}

// Writer builds one-sheet workbooks.
type Writer struct {
	Headers []string
}

// NewWriter creates a Writer with the default headers.
func NewWriter() *Writer {
	return &Writer{Headers: DefaultHeaders}
}

// Write returns rows as an xlsx document, one row per item under a header row.
func (w *Writer) Write(rows []domain.SheetRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headers := w.Headers
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{r.Name, r.Detail, r.Type, r.Status, r.Priority, r.CreatedAt, r.DueDate, r.Result}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "C", "H", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
