// Package writer persists parsed transactions as JSON, CSV or XLSX.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Writer serializes a transaction list.
type Writer interface {
	Write(out io.Writer, txns []models.Transaction) error
	Extension() string
}

// New returns the writer for a format name: json, csv or xlsx.
func New(format string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return &JSONWriter{}, nil
	case "csv":
		return &CSVWriter{IncludeHeader: true}, nil
	case "xlsx", "excel":
		return &XLSXWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteToFile writes transactions to path, creating parent directories.
func WriteToFile(w Writer, path string, txns []models.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, txns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteAll writes one file per format as dir/base.<ext> and returns the paths
// written.
func WriteAll(dir, base string, formats []string, txns []models.Transaction) ([]string, error) {
	var paths []string
	for _, format := range formats {
		w, err := New(format)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, base+w.Extension())
		if err := WriteToFile(w, path, txns); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
