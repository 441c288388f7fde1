package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hts-group/hts-tasks/internal/domain"
)

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWriter_Write(t *testing.T) {
	// Setup
	w := NewWriter()
	rows := []domain.SheetRow{
		{Name: "Report", Detail: "Q3", Type: "Task", Status: "Active", Priority: 7, CreatedAt: "2024-06-09 10:00", DueDate: "2024-06-13 09:00", Result: "-"},
		{Name: "Leave", Type: "Letter", Status: "Completed", Priority: 5, CreatedAt: "2024-06-01 08:00", DueDate: "-", Result: "approved"},
	}

	// Execute
	data, err := w.Write(rows)

	// Assert
	require.NoError(t, err)
	got := readRows(t, data)
	require.Len(t, got, 3)
	assert.Equal(t, DefaultHeaders, got[0])
	assert.Equal(t, []string{"Report", "Q3", "Task", "Active", "7", "2024-06-09 10:00", "2024-06-13 09:00", "-"}, got[1])
	assert.Equal(t, "Leave", got[2][0])
	assert.Equal(t, "approved", got[2][7])
}

func TestWriter_Write_CustomHeaders(t *testing.T) {
	w := &Writer{Headers: []string{"ناو", "وردەکاری", "جۆر", "دۆخ", "گرنگی", "بەرواری دروستکردن", "بەرواری کۆتایی", "ئەنجام"}}

	data, err := w.Write(nil)

	require.NoError(t, err)
	got := readRows(t, data)
	require.Len(t, got, 1)
	assert.Equal(t, "ناو", got[0][0])
}
