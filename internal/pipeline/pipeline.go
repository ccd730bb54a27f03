// Package pipeline sequences statement ingestion: detect the bank, normalize
// the raw text, extract rows, group fees with their principal transactions
// and prepare the categorization payload.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nairafolio/statement-ingest/internal/grouper"
	"github.com/nairafolio/statement-ingest/internal/llmprep"
	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/normalize"
	"github.com/nairafolio/statement-ingest/internal/registry"
)

// RowExtractor turns normalized statement text into raw transaction rows
// using the detected bank's field mapping. Implementations live outside the
// core pipeline; PDF table extraction is an external capability.
type RowExtractor interface {
	ExtractRows(ctx context.Context, cleanedText string, bank models.BankType) ([]models.RawTransactionRow, error)
}

// Options is the caller-supplied options bag for one ingestion run.
type Options struct {
	// BankType skips detection when set.
	BankType models.BankType
	// LookAheadRows bounds the fee scan window; zero means the default.
	LookAheadRows int
	// Verbose emits per-step debug logging.
	Verbose bool
	// PreserveOriginal retains the untouched input text in the result.
	PreserveOriginal bool
}

// Stats summarizes one ingestion run.
type Stats struct {
	OriginalCharCount    int   `json:"originalCharCount"`
	CleanedCharCount     int   `json:"cleanedCharCount"`
	TotalTransactions    int   `json:"totalTransactions"`
	TransactionsWithFees int   `json:"transactionsWithFees"`
	TotalFees            int   `json:"totalFees"`
	ProcessingTimeMs     int64 `json:"processingTimeMs"`
}

// Debug carries operator-facing diagnostics. The pipeline pushes problems
// here instead of failing: a statement with a bad row still produces a
// result.
type Debug struct {
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Result is the structured outcome of one ingestion run.
type Result struct {
	CleanedText         string                      `json:"cleanedText"`
	OriginalText        string                      `json:"originalText,omitempty"`
	GroupedTransactions []models.GroupedTransaction `json:"groupedTransactions"`
	LLMData             []models.LLMRecord          `json:"llmData"`
	BankType            models.BankType             `json:"bankType"`
	Stats               Stats                       `json:"stats"`
	Debug               *Debug                      `json:"debug,omitempty"`
}

// Pipeline wires the registry and an optional row extractor into the
// ingestion sequence. A Pipeline holds no per-run state; concurrent Process
// calls need no coordination.
type Pipeline struct {
	registry *registry.Registry
	rows     RowExtractor
	log      zerolog.Logger
}

// New builds a Pipeline. rows may be nil, in which case ingestion still
// completes with empty transactions and zeroed statistics.
func New(reg *registry.Registry, rows RowExtractor, log zerolog.Logger) *Pipeline {
	return &Pipeline{registry: reg, rows: rows, log: log}
}

// Process runs the full ingestion sequence on raw statement text. It never
// fails on malformed statement content; diagnostics land in Result.Debug.
// The context is passed through to the row extractor, the only step that
// may ever perform I/O.
func (p *Pipeline) Process(ctx context.Context, rawText string, opts Options) (*Result, error) {
	start := time.Now()
	debug := &Debug{}

	bank := opts.BankType
	if bank == "" {
		bank = p.registry.DetectBank(rawText)
	}
	if opts.Verbose {
		p.log.Debug().Str("bank", string(bank)).Msg("bank resolved")
	}

	cleaned := normalize.QuickClean(rawText)

	var rows []models.RawTransactionRow
	if p.rows != nil {
		extracted, err := p.rows.ExtractRows(ctx, cleaned, bank)
		if err != nil {
			// Row extraction failing yields an empty (if unhelpful)
			// result, not a fault.
			debug.Warnings = append(debug.Warnings, fmt.Sprintf("row extraction: %v", err))
			p.log.Warn().Err(err).Msg("row extraction failed")
		} else {
			rows = extracted
		}
	}

	groups := grouper.Group(rows, grouper.Options{
		LookAheadRows: opts.LookAheadRows,
		FeeKeywords:   p.registry.FeeKeywords(),
	})
	llmData := llmprep.Prepare(groups)

	stats := Stats{
		OriginalCharCount: len(rawText),
		CleanedCharCount:  len(cleaned),
		TotalTransactions: len(groups),
	}
	for _, g := range groups {
		if g.HasFees {
			stats.TransactionsWithFees++
		}
		stats.TotalFees += len(g.Fees)
	}
	stats.ProcessingTimeMs = time.Since(start).Milliseconds()

	if opts.Verbose {
		p.log.Debug().
			Int("rows", len(rows)).
			Int("transactions", stats.TotalTransactions).
			Int("fees", stats.TotalFees).
			Msg("statement processed")
	}

	result := &Result{
		CleanedText:         cleaned,
		GroupedTransactions: groups,
		LLMData:             llmData,
		BankType:            bank,
		Stats:               stats,
	}
	if opts.PreserveOriginal {
		result.OriginalText = rawText
	}
	if len(debug.Warnings) > 0 || len(debug.Errors) > 0 {
		result.Debug = debug
	}

	return result, nil
}
