package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// JSONWriter writes transactions as an indented JSON array of records.
type JSONWriter struct{}

func (w *JSONWriter) Extension() string {
	return ".json"
}

func (w *JSONWriter) Write(out io.Writer, txns []models.Transaction) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(models.Records(txns)); err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	return nil
}
