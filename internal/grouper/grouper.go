// Package grouper walks raw statement rows and groups each principal
// transaction with the fee/charge rows that immediately follow it.
package grouper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/normalize"
)

// DefaultLookAheadRows is how many rows past a main transaction are
// inspected for trailing fees when Options.LookAheadRows is unset.
const DefaultLookAheadRows = 3

// Options controls a grouping pass.
type Options struct {
	// LookAheadRows bounds the fee scan window after each main
	// transaction. Zero or negative means DefaultLookAheadRows.
	LookAheadRows int
	// RawDescriptions keeps main descriptions verbatim instead of
	// running them through CleanDescription.
	RawDescriptions bool
	// FeeKeywords are the substrings (matched case-insensitively) that
	// classify a row as a fee, normally registry.FeeKeywords().
	FeeKeywords []string
}

// Group performs a single left-to-right pass over rows. Each row becomes
// either the main transaction of a group or a fee inside the preceding
// group; no row is dropped or double-counted. A fee-classified row with no
// main transaction to claim it (an orphaned fee) is emitted as its own
// standalone group rather than discarded.
//
// Group never fails on malformed input: unparsable amounts contribute zero
// to the totals and processing continues.
func Group(rows []models.RawTransactionRow, opts Options) []models.GroupedTransaction {
	lookAhead := opts.LookAheadRows
	if lookAhead <= 0 {
		lookAhead = DefaultLookAheadRows
	}

	consumed := make([]bool, len(rows))
	groups := make([]models.GroupedTransaction, 0, len(rows))

	for i := range rows {
		if consumed[i] {
			continue
		}
		consumed[i] = true

		g := models.GroupedTransaction{
			MainTransaction: rows[i],
			Fees:            []models.RawTransactionRow{},
			OriginalIndex:   i,
		}

		var feeTotal float64
		if !IsFeeTransaction(rows[i].Description, opts.FeeKeywords) {
			// Scan the window in order and stop at the first row that is
			// not both fee-classified and date-matching. Skipping over a
			// mismatch could steal a fee belonging to a later transaction.
			for j := i + 1; j <= i+lookAhead && j < len(rows); j++ {
				if !IsFeeTransaction(rows[j].Description, opts.FeeKeywords) ||
					!datesMatch(rows[i].Date, rows[j].Date) {
					break
				}
				g.Fees = append(g.Fees, rows[j])
				feeTotal += ParseAmount(rows[j].Debit)
				consumed[j] = true
			}
		}

		// Fees add to the debit side only; a fee never carries credit.
		g.TotalDebit = ParseAmount(rows[i].Debit) + feeTotal
		g.TotalCredit = ParseAmount(rows[i].Credit)
		g.HasFees = len(g.Fees) > 0

		if opts.RawDescriptions {
			g.CleanedDescription = rows[i].Description
		} else {
			g.CleanedDescription = CleanDescription(rows[i].Description)
		}

		groups = append(groups, g)
	}

	return groups
}

// IsFeeTransaction reports whether a description identifies a bank-levied
// fee/charge row, by case-insensitive substring match against keywords.
func IsFeeTransaction(description string, keywords []string) bool {
	upper := strings.ToUpper(description)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}

// datesMatch is exact string equality. Fuzzy day-adjacency was considered
// and rejected: loosening this silently changes which fees attach to which
// transactions.
func datesMatch(a, b string) bool {
	return a == b
}

// ParseAmount converts a formatted statement amount like "₦1,234.56" to a
// float64. Unparsable or absent input yields 0, never an error; a single
// bad cell must not abort an entire statement.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₦", "")
	s = strings.ReplaceAll(s, "NGN", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space
	if s == "" || s == "-" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanDescription applies the normalizer's noise-symbol stripping, then
// collapses every whitespace run to a single space and trims.
func CleanDescription(s string) string {
	s = normalize.QuickClean(s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
