package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetWriter builds a single-sheet workbook row by row
type SheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func NewSheetWriter(sheet string) *SheetWriter {
	// Excel caps sheet names at 31 chars
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}

	file := excelize.NewFile()
	file.SetSheetName("Sheet1", sheet)

	return &SheetWriter{file: file, sheet: sheet, row: 1}
}

// WriteHeader writes bold column titles and freezes the row
func (w *SheetWriter) WriteHeader(columns []string) error {
	if err := w.writeCells(toAny(columns)); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.row)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.row)
		_ = w.file.SetCellStyle(w.sheet, startCell, endCell, style)
	}

	_ = w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	w.row++
	return nil
}

func (w *SheetWriter) WriteRow(values []any) error {
	if err := w.writeCells(values); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *SheetWriter) writeCells(values []any) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

// Rows is the number of data rows written so far
func (w *SheetWriter) Rows() int {
	return w.row - 2
}

func (w *SheetWriter) Save(wr io.Writer) error {
	if err := w.file.Write(wr); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (w *SheetWriter) Close() error {
	return w.file.Close()
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
