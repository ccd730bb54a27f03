// Package llmprep flattens grouped transactions into the minimal-field
// records and pipe-delimited text sent to the external categorization
// service.
package llmprep

import (
	"fmt"
	"strings"

	"github.com/nairafolio/statement-ingest/internal/grouper"
	"github.com/nairafolio/statement-ingest/internal/models"
)

// Prepare projects grouped transactions into LLM payload records. IDs are
// sequential starting at 1. The amount is whichever of totalDebit and
// totalCredit is non-zero, debit checked first; negative totals (reversals)
// pass through unchanged. A group with no extractable amount gets amount 0
// and type "debit".
func Prepare(groups []models.GroupedTransaction) []models.LLMRecord {
	records := make([]models.LLMRecord, 0, len(groups))

	for i, g := range groups {
		rec := models.LLMRecord{
			ID:           i + 1,
			Date:         g.MainTransaction.Date,
			Description:  g.CleanedDescription,
			HasFees:      g.HasFees,
			FeeBreakdown: []models.FeeBreakdown{},
			Balance:      g.MainTransaction.Balance,
			Reference:    g.MainTransaction.Reference,
			Original: models.OriginalDescriptions{
				MainDescription: g.MainTransaction.Description,
			},
		}

		switch {
		case g.TotalDebit != 0:
			rec.Amount = g.TotalDebit
			rec.Type = "debit"
		case g.TotalCredit != 0:
			rec.Amount = g.TotalCredit
			rec.Type = "credit"
		default:
			rec.Amount = 0
			rec.Type = "debit"
		}

		for _, fee := range g.Fees {
			rec.FeeBreakdown = append(rec.FeeBreakdown, models.FeeBreakdown{
				Description: grouper.CleanDescription(fee.Description),
				Amount:      grouper.ParseAmount(fee.Debit),
			})
			rec.Original.FeeDescriptions = append(rec.Original.FeeDescriptions, fee.Description)
		}

		records = append(records, rec)
	}

	return records
}

// RenderRecord serializes one record into a single pipe-delimited line. The
// field order is fixed; the categorization prompt format depends on it.
func RenderRecord(r models.LLMRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DATE: %s | DESC: %s | AMOUNT: %.2f | TYPE: %s | BALANCE: %s",
		r.Date, r.Description, r.Amount, r.Type, r.Balance)

	if r.HasFees {
		var total float64
		for _, fee := range r.FeeBreakdown {
			total += fee.Amount
		}
		fmt.Fprintf(&b, " | FEES: %.2f", total)
		for _, fee := range r.FeeBreakdown {
			fmt.Fprintf(&b, " | %s: %.2f", strings.ToUpper(fee.Description), fee.Amount)
		}
	}

	if r.Reference != "" {
		fmt.Fprintf(&b, " | REF: %s", r.Reference)
	}

	return b.String()
}

// Render serializes all records, one line per record.
func Render(records []models.LLMRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, RenderRecord(r))
	}
	return strings.Join(lines, "\n")
}
