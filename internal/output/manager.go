// internal/output/manager.go
package output

import (
	"fmt"

	"github.com/valpere/ShopScrapexter/internal/config"
	"github.com/valpere/ShopScrapexter/internal/extract"
)

// Manager dispatches product records to the configured output format
type Manager struct {
	cfg config.OutputConfig
}

// NewManager creates a new output manager
func NewManager(cfg *config.OutputConfig) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("output configuration is required")
	}
	if !OutputFormat(cfg.Format).IsValid() {
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}

	return &Manager{cfg: *cfg}, nil
}

// GetWriter returns the writer for the configured format
func (m *Manager) GetWriter() (Writer, error) {
	switch OutputFormat(m.cfg.Format) {
	case FormatJSON:
		return NewJSONWriter(m.cfg.File, m.cfg.Pretty)
	case FormatCSV:
		return NewCSVWriter(m.cfg.File)
	case FormatExcel:
		return NewExcelWriter(m.cfg.File, m.cfg.Sheet)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", m.cfg.Format)
	}
}

// Write writes the records using the configured format
func (m *Manager) Write(records []extract.ProductRecord) error {
	writer, err := m.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get writer: %w", err)
	}
	if err := writer.Write(records); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
