package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/api"
	"github.com/insightdelivered/card-statement-parser/internal/categorize"
	"github.com/insightdelivered/card-statement-parser/internal/logger"
	"github.com/insightdelivered/card-statement-parser/internal/merchant"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing:

  GET  /api/health   liveness check
  POST /api/parse    parse a statement sent as JSON {"text", "filename", "bank"}
                     or as a multipart upload in the "file" field (.pdf or .txt)

Add ?debug=true to /api/parse to include the per-line parse trace.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&serveAddr,
		"addr",
		"",
		"Listen address (overrides server.addr)",
	)
}

func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	h := &api.Handler{
		Options:   cfg.ParserOptions(),
		Merchants: merchant.New(rules),
		Logger:    log,
		Version:   Version,
	}
	if cfg.Categorize.Enabled {
		catalog := categorize.NewCatalog(categorize.DefaultCategories())
		c, err := buildCategorizer(ctx, catalog)
		if err != nil {
			return err
		}
		h.Categorizer = c
		h.Catalog = catalog
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	app := api.NewApp(h, cfg.Server.BodyLimit)

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Msg("Server listening")
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
