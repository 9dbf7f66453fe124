// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/valpere/ShopScrapexter/internal/extract"
)

// JSONWriter writes product records in JSON format
type JSONWriter struct {
	out    io.Writer
	file   *os.File
	pretty bool
}

// NewJSONWriter creates a JSON writer targeting a file, or stdout when
// filename is empty.
func NewJSONWriter(filename string, pretty bool) (*JSONWriter, error) {
	if filename == "" {
		return &JSONWriter{out: os.Stdout, pretty: pretty}, nil
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{out: file, file: file, pretty: pretty}, nil
}

// NewJSONStreamWriter creates a JSON writer targeting an arbitrary writer.
func NewJSONStreamWriter(out io.Writer, pretty bool) *JSONWriter {
	return &JSONWriter{out: out, pretty: pretty}
}

// Write encodes the records as a JSON array
func (w *JSONWriter) Write(records []extract.ProductRecord) error {
	encoder := json.NewEncoder(w.out)
	if w.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

// WriteRecord encodes a single record
func (w *JSONWriter) WriteRecord(record extract.ProductRecord) error {
	encoder := json.NewEncoder(w.out)
	if w.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(record)
}

// Close closes the underlying file, if any
func (w *JSONWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
