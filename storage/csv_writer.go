package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"c3speakers/models"
)

// CSVWriter exports a speaker snapshot to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "handle"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per speaker.
func (c *CSVWriter) Write(speakers []models.Speaker) error {
	for _, sp := range speakers {
		if err := c.writer.Write([]string{sp.ID, sp.Name, sp.Handle}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
