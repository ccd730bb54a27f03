package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nairafolio/statement-ingest/internal/pipeline"
)

// CSVWriter renders an ingestion result as CSV for the import-review flow.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes the result in CSV format to the given writer. One row per
// grouped transaction; fee totals are carried in their own column.
func (w *CSVWriter) Write(out io.Writer, res *pipeline.Result) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Bank", string(res.BankType)})
		writer.Write([]string{"# Transactions", strconv.Itoa(res.Stats.TotalTransactions)})
		writer.Write([]string{"# Fees Attached", strconv.Itoa(res.Stats.TotalFees)})
	}

	header := []string{"Date", "Description", "Type", "Amount", "Fees", "Balance", "Reference"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range res.LLMData {
		var feeTotal float64
		for _, fee := range rec.FeeBreakdown {
			feeTotal += fee.Amount
		}
		row := []string{
			rec.Date,
			rec.Description,
			rec.Type,
			formatAmount(rec.Amount),
			formatAmount(feeTotal),
			rec.Balance,
			rec.Reference,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
