package categorize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the subset of genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCategorizer asks a Gemini model for each merchant's category. Answers
// are cached per merchant for the life of the categorizer.
type GeminiCategorizer struct {
	models  contentGenerator
	model   string
	catalog *Catalog

	mu    sync.Mutex
	cache map[string]string
}

// NewGemini creates a Gemini-backed categorizer. Credentials come from the
// environment (GOOGLE_API_KEY or Vertex AI settings) as genai resolves them.
func NewGemini(ctx context.Context, model string, catalog *Catalog) (*GeminiCategorizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model, catalog), nil
}

func newGemini(gen contentGenerator, model string, catalog *Catalog) *GeminiCategorizer {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCategorizer{
		models:  gen,
		model:   model,
		catalog: catalog,
		cache:   make(map[string]string),
	}
}

func (g *GeminiCategorizer) Categorize(ctx context.Context, txn models.Transaction) (string, error) {
	key := txn.Merchant
	if key == "" {
		key = txn.Description
	}

	g.mu.Lock()
	id, ok := g.cache[key]
	g.mu.Unlock()
	if ok {
		return id, nil
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: g.prompt(txn)}},
		},
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	id = strings.ToLower(strings.Trim(strings.TrimSpace(resp.Text()), "`'\"."))
	if _, known := g.catalog.ByID(id); !known {
		id = OtherID
	}

	g.mu.Lock()
	g.cache[key] = id
	g.mu.Unlock()
	return id, nil
}

func (g *GeminiCategorizer) prompt(txn models.Transaction) string {
	var b strings.Builder
	b.WriteString("Categorize this credit card transaction.\n\n")
	fmt.Fprintf(&b, "Transaction: %s\n", txn.Description)
	if txn.Merchant != "" {
		fmt.Fprintf(&b, "Merchant: %s\n", txn.Merchant)
	}
	b.WriteString("\nAvailable categories:\n")
	for _, c := range g.catalog.List() {
		fmt.Fprintf(&b, "- %s: %s - %s\n", c.ID, c.Name, c.Description)
	}
	b.WriteString("\nRespond with ONLY the category ID, nothing else.")
	return b.String()
}
