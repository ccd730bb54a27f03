package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairafolio/statement-ingest/internal/models"
)

func sampleRecords() []models.LLMRecord {
	return []models.LLMRecord{
		{
			ID:          1,
			Date:        "2024-01-05",
			Description: "NIP TRANSFER TO JOHN",
			Amount:      5053.75,
			Type:        "debit",
			Balance:     "94,946.25",
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(sampleRecords())

	// The taxonomy and the rendered transaction lines both appear.
	for _, cat := range categories {
		assert.Contains(t, prompt, cat.Name)
	}
	assert.Contains(t, prompt, "DATE: 2024-01-05 | DESC: NIP TRANSFER TO JOHN")
	assert.Contains(t, prompt, "STRICT JSON")
	assert.Contains(t, prompt, "begin with \"[\"")
}

func TestDecodeAssignments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "raw JSON",
			raw:  `[{"id":1,"category":"Transfers","subcategory":""}]`,
		},
		{
			name: "fenced JSON",
			raw:  "```json\n[{\"id\":1,\"category\":\"Transfers\",\"subcategory\":\"\"}]\n```",
		},
		{
			name: "surrounding prose",
			raw:  "Here you go:\n[{\"id\":1,\"category\":\"Transfers\"}]\nHope that helps!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments, err := decodeAssignments(tt.raw)
			require.NoError(t, err)
			require.Len(t, assignments, 1)
			assert.Equal(t, 1, assignments[0].ID)
			assert.Equal(t, "Transfers", assignments[0].Category)
		})
	}
}

func TestDecodeAssignmentsInvalid(t *testing.T) {
	_, err := decodeAssignments("the model refused to answer")
	assert.Error(t, err)
}
