package registry

import (
	"github.com/rs/zerolog"

	"github.com/nairafolio/statement-ingest/internal/models"
)

// StandardField is a key in the canonical transaction-row vocabulary that
// bank-specific column headers are mapped onto.
type StandardField string

const (
	FieldTransactionDate StandardField = "transactionDate"
	FieldValueDate       StandardField = "valueDate"
	FieldDescription     StandardField = "description"
	FieldDebit           StandardField = "debit"
	FieldCredit          StandardField = "credit"
	FieldBalance         StandardField = "balance"
	FieldReference       StandardField = "reference"
	FieldBranch          StandardField = "branch"
)

// TypePattern maps a coarse transaction category to the description
// substrings that hint at it. Hints only; final categorization is delegated
// to the external categorization service.
type TypePattern struct {
	Category string
	Patterns []string
}

// bankEntry ties a bank identifier to its detection signatures and column
// mapping. The registry keeps entries in a slice, not a map: detection ties
// are broken by registration order and that order must stay deterministic.
type bankEntry struct {
	id             models.BankType
	detectPatterns []string
	fieldMapping   map[string]StandardField
}

// Registry owns the immutable field-mapping and keyword tables for all
// supported banks. Construct with New; the tables never change afterwards,
// so a single Registry is safe for concurrent use.
type Registry struct {
	banks       []bankEntry
	feeKeywords []string
	typeHints   []TypePattern
	log         zerolog.Logger
}

// Option customizes a Registry at construction time, e.g. with tables loaded
// from a config file.
type Option func(*Registry)

// WithFeeKeywords appends extra fee-detection substrings after the built-in
// set. Keywords are matched case-insensitively as substrings.
func WithFeeKeywords(keywords ...string) Option {
	return func(r *Registry) {
		r.feeKeywords = append(r.feeKeywords, keywords...)
	}
}

// WithDetectionPatterns appends extra detection substrings for a bank.
// Unknown bank identifiers are registered as new entries after the built-in
// banks, with the generic field mapping.
func WithDetectionPatterns(bank models.BankType, patterns ...string) Option {
	return func(r *Registry) {
		for i := range r.banks {
			if r.banks[i].id == bank {
				r.banks[i].detectPatterns = append(r.banks[i].detectPatterns, patterns...)
				return
			}
		}
		r.banks = append(r.banks, bankEntry{
			id:             bank,
			detectPatterns: patterns,
			fieldMapping:   genericFieldMapping(),
		})
	}
}

// WithFieldMapping replaces or adds the column mapping for a bank. The keys
// are raw column headers exactly as printed on statements (uppercase in this
// domain); the values are StandardField names.
func WithFieldMapping(bank models.BankType, mapping map[string]StandardField) Option {
	return func(r *Registry) {
		for i := range r.banks {
			if r.banks[i].id == bank {
				r.banks[i].fieldMapping = mapping
				return
			}
		}
		r.banks = append(r.banks, bankEntry{id: bank, fieldMapping: mapping})
	}
}

// New builds a Registry with the built-in Nigerian bank tables, then applies
// any options on top.
func New(log zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		banks:       defaultBanks(),
		feeKeywords: defaultFeeKeywords(),
		typeHints:   defaultTypeHints(),
		log:         log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FieldMapping returns the raw-column-name → StandardField mapping for the
// given bank. Unknown banks fall back to the generic mapping; that is an
// expected outcome, logged at warn level rather than returned as an error.
func (r *Registry) FieldMapping(bank models.BankType) map[string]StandardField {
	for _, b := range r.banks {
		if b.id == bank {
			return b.fieldMapping
		}
	}
	r.log.Warn().
		Str("bank", string(bank)).
		Msg("no field mapping registered, falling back to generic")
	return genericFieldMapping()
}

// FeeKeywords returns the ordered fee-detection substrings. The returned
// slice is a copy; callers may not mutate registry state.
func (r *Registry) FeeKeywords() []string {
	out := make([]string, len(r.feeKeywords))
	copy(out, r.feeKeywords)
	return out
}

// TypeHints returns the ordered category-hint patterns.
func (r *Registry) TypeHints() []TypePattern {
	out := make([]TypePattern, len(r.typeHints))
	copy(out, r.typeHints)
	return out
}

// Banks returns the registered bank identifiers in registration order.
func (r *Registry) Banks() []models.BankType {
	out := make([]models.BankType, 0, len(r.banks))
	for _, b := range r.banks {
		out = append(out, b.id)
	}
	return out
}

func defaultBanks() []bankEntry {
	return []bankEntry{
		{
			id:             models.BankGTBank,
			detectPatterns: []string{"GUARANTY TRUST", "GTBANK", "GTWORLD", "GTB PLC"},
			fieldMapping: map[string]StandardField{
				"TRANS. DATE":        FieldTransactionDate,
				"VALUE. DATE":        FieldValueDate,
				"REMARKS":            FieldDescription,
				"DEBITS":             FieldDebit,
				"CREDITS":            FieldCredit,
				"BALANCE":            FieldBalance,
				"REFERENCE":          FieldReference,
				"ORIGINATING BRANCH": FieldBranch,
			},
		},
		{
			id:             models.BankFirstBank,
			detectPatterns: []string{"FIRST BANK OF NIGERIA", "FIRSTBANK", "FIRSTMOBILE"},
			fieldMapping: map[string]StandardField{
				"TRANSDATE":    FieldTransactionDate,
				"VALUEDATE":    FieldValueDate,
				"NARRATION":    FieldDescription,
				"DEBIT":        FieldDebit,
				"CREDIT":       FieldCredit,
				"BALANCE":      FieldBalance,
				"REFERENCE NO": FieldReference,
				"BRANCH":       FieldBranch,
			},
		},
		{
			id:             models.BankAccess,
			detectPatterns: []string{"ACCESS BANK", "ACCESSMORE", "ACCESS MORE"},
			fieldMapping: map[string]StandardField{
				"DATE":        FieldTransactionDate,
				"VALUE DATE":  FieldValueDate,
				"DESCRIPTION": FieldDescription,
				"WITHDRAWALS": FieldDebit,
				"DEPOSITS":    FieldCredit,
				"BALANCE":     FieldBalance,
				"REFERENCE":   FieldReference,
			},
		},
		{
			id:             models.BankZenith,
			detectPatterns: []string{"ZENITH BANK", "ZENITHBANK", "EAZYBANKING"},
			fieldMapping: map[string]StandardField{
				"DATE POSTED":     FieldTransactionDate,
				"VALUE DATE":      FieldValueDate,
				"NARRATIVE":       FieldDescription,
				"DEBIT":           FieldDebit,
				"CREDIT":          FieldCredit,
				"BALANCE":         FieldBalance,
				"TRANSACTION REF": FieldReference,
			},
		},
		{
			id:             models.BankUBA,
			detectPatterns: []string{"UNITED BANK FOR AFRICA", "UBA GROUP", "UBA PLC"},
			fieldMapping: map[string]StandardField{
				"TRAN DATE":  FieldTransactionDate,
				"VALUE DATE": FieldValueDate,
				"NARRATION":  FieldDescription,
				"DEBIT":      FieldDebit,
				"CREDIT":     FieldCredit,
				"BALANCE":    FieldBalance,
				"REFERENCE":  FieldReference,
			},
		},
		{
			// generic never matches during detection; it is only ever the
			// fallback when nothing else matched.
			id:           models.BankGeneric,
			fieldMapping: genericFieldMapping(),
		},
	}
}

func genericFieldMapping() map[string]StandardField {
	return map[string]StandardField{
		"DATE":        FieldTransactionDate,
		"VALUE DATE":  FieldValueDate,
		"DESCRIPTION": FieldDescription,
		"DEBIT":       FieldDebit,
		"CREDIT":      FieldCredit,
		"BALANCE":     FieldBalance,
		"REFERENCE":   FieldReference,
		"BRANCH":      FieldBranch,
	}
}

func defaultFeeKeywords() []string {
	return []string{
		"COMMISSION",
		"VAT",
		"STAMP DUTY",
		"SMS CHARGE",
		"SMS ALERT",
		"COT",
		"EMTL",
		"ELECTRONIC MONEY TRANSFER LEVY",
		"MAINTENANCE FEE",
		"SERVICE CHARGE",
	}
}

func defaultTypeHints() []TypePattern {
	return []TypePattern{
		{Category: "transfer", Patterns: []string{"TRANSFER", "TRF", "NIP"}},
		{Category: "airtime", Patterns: []string{"AIRTIME", "RECHARGE", "VTU"}},
		{Category: "data", Patterns: []string{"DATA BUNDLE", "DATA PLAN", "INTERNET DATA"}},
		{Category: "withdrawal", Patterns: []string{"ATM", "WITHDRAWAL", "CASH WDL"}},
		{Category: "purchase", Patterns: []string{"POS", "PURCHASE", "WEB PAY"}},
		{Category: "bill", Patterns: []string{"DSTV", "GOTV", "PHCN", "ELECTRICITY", "BILL PAYMENT"}},
	}
}
