// internal/output/excel.go
package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/ShopScrapexter/internal/extract"
)

// Excel cell limit; longer strings are truncated.
const excelMaxCellLength = 32767

// ExcelWriter writes product records to an .xlsx workbook with a styled
// header row, one row per product.
type ExcelWriter struct {
	file      *excelize.File
	filePath  string
	sheetName string
	row       int
}

// NewExcelWriter creates an Excel writer. A file path is required; the
// workbook is written on Close.
func NewExcelWriter(filePath, sheetName string) (*ExcelWriter, error) {
	if filePath == "" {
		return nil, fmt.Errorf("excel file path is required")
	}
	if sheetName == "" {
		sheetName = "Products"
	}

	file := excelize.NewFile()
	defaultSheet := file.GetSheetName(0)
	if defaultSheet != sheetName {
		if err := file.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	w := &ExcelWriter{
		file:      file,
		filePath:  filePath,
		sheetName: sheetName,
		row:       1,
	}
	if err := w.writeHeaders(); err != nil {
		return nil, err
	}

	return w, nil
}

// Write appends one row per record
func (w *ExcelWriter) Write(records []extract.ProductRecord) error {
	for _, record := range records {
		if err := w.writeRecord(record); err != nil {
			return err
		}
	}
	return nil
}

// Close applies final formatting and saves the workbook
func (w *ExcelWriter) Close() error {
	if err := w.applyFinalFormatting(); err != nil {
		return err
	}
	return w.file.SaveAs(w.filePath)
}

func (w *ExcelWriter) writeHeaders() error {
	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
	})
	if err != nil {
		return err
	}

	for col, header := range tabularColumns {
		cell := columnName(col+1) + strconv.Itoa(w.row)
		if err := w.file.SetCellValue(w.sheetName, cell, header); err != nil {
			return err
		}
		if err := w.file.SetCellStyle(w.sheetName, cell, cell, style); err != nil {
			return err
		}
	}

	w.row++
	return nil
}

func (w *ExcelWriter) writeRecord(record extract.ProductRecord) error {
	row := flatten(record)

	for col, column := range tabularColumns {
		cell := columnName(col+1) + strconv.Itoa(w.row)
		if err := w.file.SetCellValue(w.sheetName, cell, processCellValue(row[column])); err != nil {
			return err
		}
	}

	w.row++
	return nil
}

func processCellValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v
	case string:
		if len(v) > excelMaxCellLength {
			return v[:excelMaxCellLength]
		}
		return v
	default:
		return value
	}
}

func (w *ExcelWriter) applyFinalFormatting() error {
	widths := map[string]float64{
		"url":            40,
		"title":          40,
		"description":    50,
		"images":         50,
		"specifications": 50,
	}

	for col, header := range tabularColumns {
		name := columnName(col + 1)
		width := 15.0
		if custom, ok := widths[header]; ok {
			width = custom
		}
		if err := w.file.SetColWidth(w.sheetName, name, name, width); err != nil {
			return err
		}
	}

	if w.row > 2 {
		lastCol := columnName(len(tabularColumns))
		ref := "A1:" + lastCol + strconv.Itoa(w.row-1)
		if err := w.file.AutoFilter(w.sheetName, ref, nil); err != nil {
			return err
		}
	}

	return w.file.SetPanes(w.sheetName, &excelize.Panes{
		Freeze: true,
		XSplit: 0,
		YSplit: 1,
	})
}

// columnName converts a column number to an Excel column name (A, B, ...,
// AA, AB).
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
