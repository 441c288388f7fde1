package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// sheetTimeLayout formats dates in spreadsheet rows.
const sheetTimeLayout = "2006-01-02 15:04"

// ExportSpreadsheetOutput contains the xlsx document.
type ExportSpreadsheetOutput struct {
	Filename string
	Data     []byte
	Rows     int
}

// ExportSpreadsheet is the use case for the flat spreadsheet export.
type ExportSpreadsheet struct {
	persist domain.Persistence
	writer  domain.SpreadsheetWriter
	clock   domain.Clock
}

// NewExportSpreadsheet creates a new ExportSpreadsheet use case.
func NewExportSpreadsheet(persist domain.Persistence, writer domain.SpreadsheetWriter, clock domain.Clock) *ExportSpreadsheet {
	return &ExportSpreadsheet{persist: persist, writer: writer, clock: clock}
}

// Execute writes one row per item, tasks first. Returns
// domain.ErrNoDataToExport when there are no items.
func (uc *ExportSpreadsheet) Execute(ctx context.Context) (*ExportSpreadsheetOutput, error) {
	now := uc.clock.Now()
	var rows []domain.SheetRow
	for _, kind := range domain.AllKinds() {
		items, err := uc.persist.Items().List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %ss: %w", kind, err)
		}
		for _, it := range items {
			rows = append(rows, sheetRow(it, now))
		}
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoDataToExport
	}

	data, err := uc.writer.Write(rows)
	if err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}
	return &ExportSpreadsheetOutput{
		Filename: "Tasks_Export_" + now.Format("2006-01-02") + ".xlsx",
		Data:     data,
		Rows:     len(rows),
	}, nil
}

func sheetRow(it *domain.Item, now time.Time) domain.SheetRow {
	row := domain.SheetRow{
		Name:      it.Name,
		Detail:    it.Detail,
		Type:      it.Kind.Display(),
		Status:    it.StatusAt(now).Display(),
		Priority:  it.Priority,
		CreatedAt: it.CreatedAt.Format(sheetTimeLayout),
		DueDate:   "-",
		Result:    "-",
	}
	if it.Reminder != nil {
		row.DueDate = it.Reminder.Format(sheetTimeLayout)
	}
	if it.Result != "" {
		row.Result = it.Result
	}
	return row
}
