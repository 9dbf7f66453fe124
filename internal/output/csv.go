// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/valpere/ShopScrapexter/internal/extract"
)

// CSVWriter writes product records in CSV format, one row per product
// with the fixed tabular column set.
type CSVWriter struct {
	out           io.Writer
	file          *os.File
	writer        *csv.Writer
	headerWritten bool
}

// NewCSVWriter creates a CSV writer targeting a file, or stdout when
// filename is empty.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if filename == "" {
		return &CSVWriter{out: os.Stdout, writer: csv.NewWriter(os.Stdout)}, nil
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{out: file, file: file, writer: csv.NewWriter(file)}, nil
}

// NewCSVStreamWriter creates a CSV writer targeting an arbitrary writer.
func NewCSVStreamWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out, writer: csv.NewWriter(out)}
}

// Write writes the records, emitting the header row once
func (w *CSVWriter) Write(records []extract.ProductRecord) error {
	if !w.headerWritten {
		if err := w.writer.Write(tabularColumns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.headerWritten = true
	}

	for _, record := range records {
		row := flatten(record)
		fields := make([]string, len(tabularColumns))
		for i, column := range tabularColumns {
			fields[i] = formatCSVValue(row[column])
		}
		if err := w.writer.Write(fields); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Flush flushes buffered rows to the underlying writer
func (w *CSVWriter) Flush() error {
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the underlying file, if any
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return err
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

func formatCSVValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
