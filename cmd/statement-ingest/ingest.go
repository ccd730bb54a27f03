package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nairafolio/statement-ingest/internal/categorize"
	"github.com/nairafolio/statement-ingest/internal/config"
	"github.com/nairafolio/statement-ingest/internal/extractor"
	"github.com/nairafolio/statement-ingest/internal/logger"
	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/pipeline"
	"github.com/nairafolio/statement-ingest/internal/registry"
	"github.com/nairafolio/statement-ingest/internal/writer"
)

var (
	ingestBank       string
	ingestCSVOut     string
	ingestJSON       bool
	ingestCategorize bool
	ingestPreserve   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <statement.pdf> [statement2.pdf ...]",
	Short: "Convert statement PDFs into grouped transactions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		log := logger.New(verbose)
		reg := registry.New(log, cfg.RegistryOptions()...)
		pipe := pipeline.New(reg, &extractor.StatementRows{Registry: reg, Log: log}, log)

		var cat categorize.Categorizer
		if ingestCategorize {
			cat = categorize.NewGeminiClient(cfg.GeminiModel, log)
		}

		for _, inputPath := range args {
			if err := processFile(cmd.Context(), pipe, cat, cfg, inputPath); err != nil {
				return fmt.Errorf("processing %s: %w", inputPath, err)
			}
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestBank, "bank", "", "bank identifier: gtbank, firstbank, access, zenith, uba (auto-detected if omitted)")
	ingestCmd.Flags().StringVar(&ingestCSVOut, "csv", "", "CSV output path (defaults to input filename with .csv extension)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "print the full result as JSON instead of writing CSV")
	ingestCmd.Flags().BoolVar(&ingestCategorize, "categorize", false, "send the payload to the categorization service and print assignments")
	ingestCmd.Flags().BoolVar(&ingestPreserve, "preserve-original", false, "retain the untouched input text in the result")
}

func processFile(ctx context.Context, pipe *pipeline.Pipeline, cat categorize.Categorizer, cfg *config.Config, inputPath string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	rawText, err := extractor.ExtractTextCombined(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	result, err := pipe.Process(ctx, rawText, pipeline.Options{
		BankType:         models.BankType(ingestBank),
		LookAheadRows:    cfg.LookAheadRows,
		Verbose:          verbose,
		PreserveOriginal: ingestPreserve || cfg.PreserveOriginal,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s: bank=%s transactions=%d fees=%d\n",
		inputPath, result.BankType, result.Stats.TotalTransactions, result.Stats.TotalFees)

	if result.Stats.TotalTransactions == 0 {
		fmt.Println("  warning: no transactions found; the statement layout may not match expected patterns")
	}

	if ingestJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		outPath := ingestCSVOut
		if outPath == "" {
			outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
		}
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.WriteToFile(outPath, result); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		fmt.Printf("  output: %s\n", outPath)
	}

	if cat != nil {
		assignments, err := cat.Categorize(ctx, result.LLMData)
		if err != nil {
			return fmt.Errorf("categorization failed: %w", err)
		}
		for _, a := range assignments {
			fmt.Printf("  #%d %s / %s\n", a.ID, a.Category, a.Subcategory)
		}
	}

	return nil
}
