package books

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ErrNotCleaned is returned when an export is requested before Clean has run.
var ErrNotCleaned = errors.New("books: no cleaned table, call Clean first")

// Cleaner flattens raw search docs into a Table and exports it to disk.
type Cleaner struct {
	logger *zap.Logger
	table  *Table
}

// NewCleaner returns a Cleaner that logs export confirmations to logger.
func NewCleaner(logger *zap.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean builds one Row per RawRecord at the same ordinal position. The
// resulting table is stored for the export operations and returned.
func (c *Cleaner) Clean(records []RawRecord) *Table {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Flatten())
	}
	c.table = NewTable(rows)
	return c.table
}

// ExportCSV writes the cleaned table to path without an index column.
func (c *Cleaner) ExportCSV(path string) error {
	if c.table == nil {
		return ErrNotCleaned
	}
	var buf bytes.Buffer
	if err := c.table.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.logger.Info("Data saved", zap.String("path", path), zap.Int("rows", c.table.Len()))
	return nil
}

// ExportJSON writes the cleaned table to path as an array of objects.
func (c *Cleaner) ExportJSON(path string) error {
	if c.table == nil {
		return ErrNotCleaned
	}
	var buf bytes.Buffer
	if err := c.table.WriteJSON(&buf); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.logger.Info("Data saved", zap.String("path", path), zap.Int("rows", c.table.Len()))
	return nil
}
