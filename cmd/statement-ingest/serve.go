package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/nairafolio/statement-ingest/internal/api"
	"github.com/nairafolio/statement-ingest/internal/categorize"
	"github.com/nairafolio/statement-ingest/internal/config"
	"github.com/nairafolio/statement-ingest/internal/extractor"
	"github.com/nairafolio/statement-ingest/internal/logger"
	"github.com/nairafolio/statement-ingest/internal/pipeline"
	"github.com/nairafolio/statement-ingest/internal/registry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the statement ingestion HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		log := logger.New(verbose)
		reg := registry.New(log, cfg.RegistryOptions()...)

		h := &api.Handler{
			Pipeline:    pipeline.New(reg, &extractor.StatementRows{Registry: reg, Log: log}, log),
			Categorizer: categorize.NewGeminiClient(cfg.GeminiModel, log),
			Log:         log,
		}

		app := fiber.New(fiber.Config{
			AppName:   "statement-ingest",
			BodyLimit: 32 << 20, // statement PDFs run a few MB at most
		})
		h.Register(app)

		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		log.Info().Str("addr", addr).Msg("starting API server")
		return app.Listen(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to config listen_addr)")
}
