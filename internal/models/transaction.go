package models

// BankType identifies which field-mapping and detection-pattern set to use.
type BankType string

const (
	BankGTBank    BankType = "gtbank"
	BankFirstBank BankType = "firstbank"
	BankAccess    BankType = "access"
	BankZenith    BankType = "zenith"
	BankUBA       BankType = "uba"
	BankGeneric   BankType = "generic"
)

// RawTransactionRow is a single statement row after bank-specific field
// mapping, before grouping. Amounts are kept as the formatted strings found
// in the statement (thousands separators, currency symbols); parsing happens
// at grouping time so a malformed cell never aborts extraction.
type RawTransactionRow struct {
	Date        string `json:"date"`
	ValueDate   string `json:"valueDate,omitempty"`
	Description string `json:"description"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
	Balance     string `json:"balance"`
	Reference   string `json:"reference,omitempty"`
	Branch      string `json:"branch,omitempty"`
}

// GroupedTransaction is one principal transaction together with the fee rows
// that trail it on the statement. Every input row ends up in exactly one
// group, either as the main transaction or inside Fees.
type GroupedTransaction struct {
	MainTransaction    RawTransactionRow   `json:"mainTransaction"`
	Fees               []RawTransactionRow `json:"fees"`
	CleanedDescription string              `json:"cleanedDescription"`
	TotalDebit         float64             `json:"totalDebit"`
	TotalCredit        float64             `json:"totalCredit"`
	HasFees            bool                `json:"hasFees"`
	OriginalIndex      int                 `json:"originalIndex"`
}

// FeeBreakdown is one fee line inside an LLM payload record.
type FeeBreakdown struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// OriginalDescriptions retains the unmodified statement wording for audit.
type OriginalDescriptions struct {
	MainDescription string   `json:"mainDescription"`
	FeeDescriptions []string `json:"feeDescriptions,omitempty"`
}

// LLMRecord is the flattened, minimal-field projection of a grouped
// transaction sent to the external categorization service.
type LLMRecord struct {
	ID           int                  `json:"id"`
	Date         string               `json:"date"`
	Description  string               `json:"description"`
	Amount       float64              `json:"amount"`
	Type         string               `json:"type"` // "debit" or "credit"
	HasFees      bool                 `json:"hasFees"`
	FeeBreakdown []FeeBreakdown       `json:"feeBreakdown"`
	Balance      string               `json:"balance"`
	Reference    string               `json:"reference,omitempty"`
	Original     OriginalDescriptions `json:"original"`
}
