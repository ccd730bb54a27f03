package registry

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/nairafolio/statement-ingest/internal/models"
)

func testRegistry(opts ...Option) *Registry {
	return New(zerolog.Nop(), opts...)
}

func TestDetectBank(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.BankType
	}{
		{
			name:     "detects GTBank",
			text:     "... GUARANTY TRUST BANK STATEMENT ...",
			expected: models.BankGTBank,
		},
		{
			name:     "detects GTBank case-insensitively",
			text:     "Guaranty Trust Bank plc\nStatement of Account",
			expected: models.BankGTBank,
		},
		{
			name:     "detects First Bank",
			text:     "FIRST BANK OF NIGERIA LIMITED\nStatement",
			expected: models.BankFirstBank,
		},
		{
			name:     "detects Access Bank",
			text:     "Access Bank Plc - Statement of Account",
			expected: models.BankAccess,
		},
		{
			name:     "detects Zenith Bank",
			text:     "ZENITH BANK PLC account statement",
			expected: models.BankZenith,
		},
		{
			name:     "detects UBA",
			text:     "United Bank for Africa Plc",
			expected: models.BankUBA,
		},
		{
			name:     "unknown bank falls back to generic",
			text:     "Some Community Microfinance Bank",
			expected: models.BankGeneric,
		},
		{
			name:     "empty text falls back to generic",
			text:     "",
			expected: models.BankGeneric,
		},
	}

	reg := testRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.DetectBank(tt.text); got != tt.expected {
				t.Errorf("DetectBank() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDetectBankDeterministic(t *testing.T) {
	// When several banks' signatures occur, the first registered bank
	// wins, every time.
	reg := testRegistry()
	text := "ZENITH BANK statement forwarded via GTBANK channel"
	first := reg.DetectBank(text)
	for i := 0; i < 10; i++ {
		if got := reg.DetectBank(text); got != first {
			t.Fatalf("detection not deterministic: %q then %q", first, got)
		}
	}
	if first != models.BankGTBank {
		t.Errorf("registration order should break the tie: got %q, want gtbank", first)
	}
}

func TestFieldMappingFallsBackToGeneric(t *testing.T) {
	reg := testRegistry()

	mapping := reg.FieldMapping("no-such-bank")
	if mapping["DESCRIPTION"] != FieldDescription {
		t.Errorf("generic fallback missing DESCRIPTION mapping")
	}
	if mapping["DATE"] != FieldTransactionDate {
		t.Errorf("generic fallback missing DATE mapping")
	}
}

func TestFieldMappingPerBank(t *testing.T) {
	reg := testRegistry()

	gt := reg.FieldMapping(models.BankGTBank)
	if gt["REMARKS"] != FieldDescription {
		t.Errorf("gtbank REMARKS should map to description, got %q", gt["REMARKS"])
	}
	if gt["DEBITS"] != FieldDebit {
		t.Errorf("gtbank DEBITS should map to debit, got %q", gt["DEBITS"])
	}

	uba := reg.FieldMapping(models.BankUBA)
	if uba["NARRATION"] != FieldDescription {
		t.Errorf("uba NARRATION should map to description, got %q", uba["NARRATION"])
	}
}

func TestFeeKeywordsCopied(t *testing.T) {
	reg := testRegistry()
	kws := reg.FeeKeywords()
	if len(kws) == 0 {
		t.Fatal("no fee keywords")
	}
	kws[0] = "MUTATED"
	if reg.FeeKeywords()[0] == "MUTATED" {
		t.Error("FeeKeywords must return a copy")
	}
}

func TestTypeHint(t *testing.T) {
	tests := []struct {
		description string
		expected    string
	}{
		{"NIP TRANSFER TO JOHN", "transfer"},
		{"MTN AIRTIME RECHARGE", "airtime"},
		{"ATM CASH WDL IKEJA", "withdrawal"},
		{"DSTV SUBSCRIPTION", "bill"},
		{"UNRECOGNIZABLE NARRATION", ""},
	}

	reg := testRegistry()
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := reg.TypeHint(tt.description); got != tt.expected {
				t.Errorf("TypeHint(%q) = %q, want %q", tt.description, got, tt.expected)
			}
		})
	}
}

func TestOptionsExtendRegistry(t *testing.T) {
	reg := testRegistry(
		WithFeeKeywords("TRANSFER LEVY"),
		WithDetectionPatterns("kuda", "KUDA MICROFINANCE"),
		WithFieldMapping("kuda", map[string]StandardField{
			"DATE":    FieldTransactionDate,
			"MEMO":    FieldDescription,
			"OUTFLOW": FieldDebit,
			"INFLOW":  FieldCredit,
			"BALANCE": FieldBalance,
		}),
	)

	found := false
	for _, kw := range reg.FeeKeywords() {
		if kw == "TRANSFER LEVY" {
			found = true
		}
	}
	if !found {
		t.Error("extra fee keyword not appended")
	}

	if got := reg.DetectBank("KUDA MICROFINANCE BANK statement"); got != "kuda" {
		t.Errorf("custom bank not detected, got %q", got)
	}
	if reg.FieldMapping("kuda")["MEMO"] != FieldDescription {
		t.Error("custom field mapping not applied")
	}

	// Built-in banks still win ties by registration order.
	if got := reg.DetectBank("GTBANK via KUDA MICROFINANCE"); got != models.BankGTBank {
		t.Errorf("built-in bank should be checked first, got %q", got)
	}
}
