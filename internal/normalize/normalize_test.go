package normalize

import "testing"

func TestQuickClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses pipe runs",
			input:    "DATE ||| DESC |||| BALANCE",
			expected: "DATE | DESC | BALANCE",
		},
		{
			name:     "collapses dash and equals runs",
			input:    "----- TOTAL ===== 5.00",
			expected: "- TOTAL = 5.00",
		},
		{
			name:     "removes noise symbols outright",
			input:    "A   ---   B ### C",
			expected: "A - B  C",
		},
		{
			name:     "removes tilde and backtick",
			input:    "REF~001 `QUOTED`",
			expected: "REF001 QUOTED",
		},
		{
			name:     "collapses 3+ spaces but keeps 1-2",
			input:    "COL1  COL2     COL3",
			expected: "COL1  COL2 COL3",
		},
		{
			name:     "caps newline runs at three",
			input:    "A\n\n\n\n\n\nB",
			expected: "A\n\n\nB",
		},
		{
			name:     "keeps three newlines as-is",
			input:    "A\n\n\nB",
			expected: "A\n\n\nB",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  statement text  ",
			expected: "statement text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuickClean(tt.input); got != tt.expected {
				t.Errorf("QuickClean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestQuickCleanIdempotent(t *testing.T) {
	inputs := []string{
		"15/01/2024  NIP TRANSFER |||| JOHN   DOE  5,000.00    95,000.00",
		"----- OPENING BALANCE ===== ₦100,000.00\n\n\n\n\nrow",
		"already clean text",
	}

	for _, input := range inputs {
		once := QuickClean(input)
		twice := QuickClean(once)
		if once != twice {
			t.Errorf("QuickClean not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestQuickCleanPreservesCharacterOrder(t *testing.T) {
	// Cleaning must never reorder non-noise characters; downstream
	// amount/date parsing depends on their relative positions.
	input := "05/01/2024 TRANSFER 5,000.00 95,000.00"
	if got := QuickClean(input); got != input {
		t.Errorf("clean input was altered: %q", got)
	}
}
