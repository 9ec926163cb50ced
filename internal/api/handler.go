// Package api exposes statement parsing over HTTP.
package api

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/categorize"
	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/merchant"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

// ParseRequest is the JSON body accepted by POST /api/parse.
type ParseRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Bank     string `json:"bank"`
}

// ParseResponse is the JSON response from POST /api/parse.
type ParseResponse struct {
	Success      bool                       `json:"success"`
	Error        string                     `json:"error,omitempty"`
	Filename     string                     `json:"filename,omitempty"`
	Bank         string                     `json:"bank,omitempty"`
	BankName     string                     `json:"bankName,omitempty"`
	Card         string                     `json:"card,omitempty"`
	Period       string                     `json:"period,omitempty"`
	Layouts      []string                   `json:"layouts,omitempty"`
	Transactions []models.Record            `json:"transactions"`
	Count        int                        `json:"count"`
	TotalSpend   string                     `json:"totalSpend"`
	TotalCredit  string                     `json:"totalCredit"`
	Duplicates   int                        `json:"duplicates"`
	Dropped      int                        `json:"dropped"`
	Categories   []categorize.CategoryTotal `json:"categories,omitempty"`
	Version      string                     `json:"version,omitempty"`
	DebugLines   []models.DebugLine         `json:"debugLines,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Options   parser.Options
	Merchants *merchant.Extractor
	// Categorizer is optional; when set, responses carry categories and a
	// per-category summary.
	Categorizer categorize.Categorizer
	Catalog     *categorize.Catalog
	Logger      zerolog.Logger
	Version     string
}

// NewApp builds the fiber app with the API routes registered.
func NewApp(h *Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "card-statement-parser",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/parse", h.HandleParse)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleParse accepts either a JSON ParseRequest or a multipart upload with a
// "file" field (.pdf or pre-extracted .txt) and optional "bank" field.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	req, err := h.readRequest(c)
	if err != nil {
		return err
	}

	bank, err := models.ParseBankType(req.Bank)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Filename == "" {
		req.Filename = "statement.txt"
	}

	info, err := parser.ParseStatement(req.Text, req.Filename, bank, h.Options)
	if err != nil {
		if errors.Is(err, parser.ErrEmptyStatement) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	log := h.Logger.With().Str("file", info.Filename).Logger()
	log.Info().
		Str("bank", string(info.Bank)).
		Str("card", info.Card).
		Int("transactions", len(info.Transactions)).
		Int("duplicates", info.Duplicates).
		Int("dropped", info.Dropped).
		Msg("Statement parsed")

	if h.Merchants != nil {
		h.Merchants.Apply(info.Transactions)
	}

	resp := ParseResponse{
		Success:    true,
		Filename:   info.Filename,
		Bank:       string(info.Bank),
		BankName:   info.BankName,
		Card:       info.Card,
		Layouts:    info.Layouts,
		Count:      len(info.Transactions),
		Duplicates: info.Duplicates,
		Dropped:    info.Dropped,
		Version:    h.Version,
	}
	if info.Period.Year > 0 {
		resp.Period = fmt.Sprintf("%02d/%d", int(info.Period.Month), info.Period.Year)
	}

	if h.Categorizer != nil && h.Catalog != nil {
		categorize.Apply(c.UserContext(), h.Categorizer, h.Catalog, info.Transactions, log)
		resp.Categories = categorize.Summarize(info.Transactions)
	}

	spend, credit := totals(info.Transactions)
	resp.TotalSpend = spend.StringFixed(2)
	resp.TotalCredit = credit.StringFixed(2)
	resp.Transactions = models.Records(info.Transactions)

	if c.QueryBool("debug") {
		resp.DebugLines = info.DebugLines
	}

	return c.JSON(resp)
}

func (h *Handler) readRequest(c *fiber.Ctx) (ParseRequest, error) {
	var req ParseRequest

	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		}
		return req, nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	req.Filename = filepath.Base(fh.Filename)
	req.Bank = c.FormValue("bank")

	f, err := fh.Open()
	if err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".pdf":
		text, err := extractor.ExtractReader(c.UserContext(), f)
		if err != nil {
			return req, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
		req.Text = text
	case ".txt":
		data, err := io.ReadAll(f)
		if err != nil {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		}
		req.Text = string(data)
	default:
		return req, fiber.NewError(fiber.StatusBadRequest, "Only PDF or TXT files are supported.")
	}
	return req, nil
}

// totals splits the sum of amounts into spend (positive) and credits
// (negative, reported as a positive number).
func totals(txns []models.Transaction) (spend, credit decimal.Decimal) {
	spend, credit = decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.IsCredit() {
			credit = credit.Add(t.Amount.Neg())
		} else {
			spend = spend.Add(t.Amount)
		}
	}
	return spend, credit
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
