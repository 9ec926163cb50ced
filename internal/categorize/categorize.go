package categorize

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/card-statement-parser/internal/merchant"
	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Categorizer decides a transaction's category ID. An empty ID with a nil
// error means no decision, letting the next categorizer in a Chain try.
type Categorizer interface {
	Categorize(ctx context.Context, txn models.Transaction) (string, error)
}

// Chain tries categorizers in order and returns the first decision.
type Chain []Categorizer

func (c Chain) Categorize(ctx context.Context, txn models.Transaction) (string, error) {
	for _, cat := range c {
		id, err := cat.Categorize(ctx, txn)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}
	return "", nil
}

// HintCategorizer uses the merchant name's built-in category hint.
type HintCategorizer struct{}

func (HintCategorizer) Categorize(_ context.Context, txn models.Transaction) (string, error) {
	return merchant.CategoryHint(txn.Merchant), nil
}

// Apply categorizes every transaction in place. A failing lookup is logged
// and the transaction falls into "other"; it never stops the run.
func Apply(ctx context.Context, c Categorizer, catalog *Catalog, txns []models.Transaction, log zerolog.Logger) {
	for i := range txns {
		if ctx.Err() != nil {
			id := OtherID
			txns[i].Category, txns[i].CategoryName = id, catalog.Name(id)
			continue
		}

		id, err := c.Categorize(ctx, txns[i])
		if err != nil {
			log.Warn().Err(err).Str("description", txns[i].Description).Msg("Categorization failed")
		}
		if _, ok := catalog.ByID(id); !ok {
			if id != "" {
				log.Debug().Str("category", id).Str("description", txns[i].Description).Msg("Unknown category, using other")
			}
			id = OtherID
		}
		txns[i].Category = id
		txns[i].CategoryName = catalog.Name(id)

		if n := i + 1; n%50 == 0 || n == len(txns) {
			log.Debug().Int("done", n).Int("total", len(txns)).Msg("Categorized transactions")
		}
	}
}
