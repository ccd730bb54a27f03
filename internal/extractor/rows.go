package extractor

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/registry"
)

// StatementRows extracts raw transaction rows from normalized statement
// text, applying the bank's column mapping from the registry. It implements
// pipeline.RowExtractor.
//
// Two layouts are handled: pipe-delimited tables (cells mapped through the
// bank's header mapping) and positional layouts, where rows are anchored on
// a leading date and amounts are read from the tail of the line.
type StatementRows struct {
	Registry *registry.Registry
	Log      zerolog.Logger
}

func (e *StatementRows) ExtractRows(ctx context.Context, cleanedText string, bank models.BankType) ([]models.RawTransactionRow, error) {
	mapping := e.Registry.FieldMapping(bank)
	lines := strings.Split(cleanedText, "\n")

	if rows, ok := extractDelimited(lines, mapping); ok {
		e.Log.Debug().Int("rows", len(rows)).Str("bank", string(bank)).Msg("delimited extraction")
		return rows, nil
	}

	rows := extractPositional(lines)
	e.Log.Debug().Int("rows", len(rows)).Str("bank", string(bank)).Msg("positional extraction")
	return rows, nil
}

// extractDelimited handles statements whose text keeps '|' column
// separators. It needs a header line where at least three cells resolve
// through the bank's field mapping; the header lookup is case-sensitive on
// the raw cell, matching how mappings are stored.
func extractDelimited(lines []string, mapping map[string]registry.StandardField) ([]models.RawTransactionRow, bool) {
	headerIdx := -1
	var columns []registry.StandardField

	for i, line := range lines {
		if strings.Count(line, "|") < 2 {
			continue
		}
		cells := strings.Split(line, "|")
		mapped := make([]registry.StandardField, len(cells))
		hits := 0
		for j, c := range cells {
			if field, ok := mapping[strings.TrimSpace(c)]; ok {
				mapped[j] = field
				hits++
			}
		}
		if hits >= 3 {
			headerIdx = i
			columns = mapped
			break
		}
	}
	if headerIdx < 0 {
		return nil, false
	}

	var rows []models.RawTransactionRow
	for _, line := range lines[headerIdx+1:] {
		if strings.Count(line, "|") < 2 {
			// Stray line inside the table; treat as a description
			// continuation of the previous row.
			text := strings.TrimSpace(line)
			if text != "" && len(rows) > 0 && !isSummaryLine(text) {
				rows[len(rows)-1].Description += " " + text
			}
			continue
		}

		cells := strings.Split(line, "|")
		var row models.RawTransactionRow
		for j, c := range cells {
			if j >= len(columns) {
				break
			}
			v := strings.TrimSpace(c)
			if v == "" {
				continue
			}
			switch columns[j] {
			case registry.FieldTransactionDate:
				row.Date = v
			case registry.FieldValueDate:
				row.ValueDate = v
			case registry.FieldDescription:
				row.Description = v
			case registry.FieldDebit:
				row.Debit = v
			case registry.FieldCredit:
				row.Credit = v
			case registry.FieldBalance:
				row.Balance = v
			case registry.FieldReference:
				row.Reference = v
			case registry.FieldBranch:
				row.Branch = v
			}
		}
		if row.Date != "" {
			rows = append(rows, row)
		}
	}
	return rows, true
}

// Date shapes seen on Nigerian statements: 05/01/2024, 05-01-2024,
// 05-Jan-2024.
var (
	dateSlash   = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	dateDashMon = regexp.MustCompile(`(?i)^(\d{1,2}-(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*-\d{2,4})\b`)
	dateDash    = regexp.MustCompile(`^(\d{1,2}-\d{1,2}-\d{2,4})\b`)

	amountPattern = regexp.MustCompile(`₦?\s?[\d,]+\.\d{2}`)
)

func leadingDate(line string) string {
	for _, p := range []*regexp.Regexp{dateSlash, dateDashMon, dateDash} {
		if m := p.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractPositional anchors rows on a leading date and reads amounts from
// the tail of the line: the last amount is the running balance, the one
// before it the movement. Lines without a date continue the previous row's
// description.
func extractPositional(lines []string) []models.RawTransactionRow {
	var rows []models.RawTransactionRow
	inSection := false
	var lastBalance float64

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if bal, ok := openingBalance(line); ok {
			lastBalance = bal
			continue
		}
		if isTableHeader(line) {
			inSection = true
			continue
		}

		date := leadingDate(line)
		if date == "" {
			if inSection && len(rows) > 0 && !isSummaryLine(line) {
				rows[len(rows)-1].Description += " " + line
			}
			continue
		}
		inSection = true

		rest := strings.TrimSpace(line[len(date):])
		row := models.RawTransactionRow{Date: date}

		if vd := leadingDate(rest); vd != "" {
			row.ValueDate = vd
			rest = strings.TrimSpace(rest[len(vd):])
		}

		locs := amountPattern.FindAllStringIndex(rest, -1)
		if len(locs) == 0 {
			// A dated line with no amounts is still a row; amounts
			// parse to zero downstream.
			row.Description = rest
			rows = append(rows, row)
			continue
		}

		row.Description = strings.TrimSpace(rest[:locs[0][0]])
		amounts := make([]string, 0, len(locs))
		for _, loc := range locs {
			amounts = append(amounts, strings.TrimSpace(rest[loc[0]:loc[1]]))
		}

		switch len(amounts) {
		case 1:
			// Only a balance column survived extraction.
			row.Balance = amounts[0]
		case 2:
			row.Balance = amounts[1]
			if isDebitMovement(amounts[0], amounts[1], lastBalance, row.Description) {
				row.Debit = amounts[0]
			} else {
				row.Credit = amounts[0]
			}
		default:
			// Debit and credit columns both present on one line.
			row.Debit = amounts[0]
			row.Credit = amounts[1]
			row.Balance = amounts[len(amounts)-1]
		}

		if bal := parseFloat(row.Balance); bal != 0 {
			lastBalance = bal
		}
		rows = append(rows, row)
	}

	return rows
}

// isDebitMovement decides whether a single-amount row is money out, first by
// balance progression against the previous running balance, then by
// narration keywords.
func isDebitMovement(amountStr, balanceStr string, prevBalance float64, description string) bool {
	amt := parseFloat(amountStr)
	bal := parseFloat(balanceStr)

	if prevBalance != 0 && amt != 0 {
		debitDiff := math.Abs((prevBalance - amt) - bal)
		creditDiff := math.Abs((prevBalance + amt) - bal)
		if debitDiff < 0.015 && creditDiff >= 0.015 {
			return true
		}
		if creditDiff < 0.015 && debitDiff >= 0.015 {
			return false
		}
	}

	upper := strings.ToUpper(description)
	for _, kw := range debitNarrations {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

var debitNarrations = []string{
	"TRANSFER TO", "TRF TO", "NIP TRANSFER", "POS", "ATM", "WITHDRAWAL",
	"AIRTIME", "DATA", "BILL", "CHARGE", "FEE", "COMMISSION", "VAT",
	"STAMP", "LEVY", "COT", "DEBIT",
}

func parseFloat(s string) float64 {
	s = strings.NewReplacer("₦", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func isTableHeader(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "DATE") &&
		(strings.Contains(upper, "NARRATION") || strings.Contains(upper, "NARRATIVE") ||
			strings.Contains(upper, "DESCRIPTION") || strings.Contains(upper, "REMARKS")) &&
		(strings.Contains(upper, "BALANCE") || strings.Contains(upper, "DEBIT") ||
			strings.Contains(upper, "WITHDRAWAL"))
}

func openingBalance(line string) (float64, bool) {
	upper := strings.ToUpper(line)
	if !strings.Contains(upper, "OPENING BALANCE") &&
		!strings.Contains(upper, "BALANCE B/F") &&
		!strings.Contains(upper, "BROUGHT FORWARD") {
		return 0, false
	}
	amounts := amountPattern.FindAllString(line, -1)
	if len(amounts) == 0 {
		return 0, false
	}
	bal := parseFloat(amounts[len(amounts)-1])
	if bal == 0 {
		return 0, false
	}
	return bal, true
}

func isSummaryLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range []string{
		"OPENING BALANCE", "CLOSING BALANCE", "TOTAL DEBIT", "TOTAL CREDIT",
		"TOTAL WITHDRAWAL", "TOTAL DEPOSIT", "STATEMENT PERIOD", "PAGE ",
		"CONTINUED",
	} {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
