// Package categorize is the client side of the external LLM categorization
// service. The ingestion core only produces the payload; this package ships
// it to Gemini and decodes the assignments coming back.
package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/nairafolio/statement-ingest/internal/llmprep"
	"github.com/nairafolio/statement-ingest/internal/models"
)

// Assignment is one category decision returned by the service, keyed by the
// payload record's sequential id.
type Assignment struct {
	ID          int    `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
}

// Categorizer assigns categories to prepared payload records.
type Categorizer interface {
	Categorize(ctx context.Context, records []models.LLMRecord) ([]Assignment, error)
}

// Category pairs a name with a guideline shown to the model.
type Category struct {
	Name      string
	Guideline string
}

// categories is the taxonomy offered to the model. Ordered; the order is
// reproduced in the prompt.
var categories = []Category{
	{Name: "Food & Dining", Guideline: "restaurants, food delivery, groceries"},
	{Name: "Transport", Guideline: "ride hailing, fuel, public transport"},
	{Name: "Airtime & Data", Guideline: "phone recharge, data bundles"},
	{Name: "Bills & Utilities", Guideline: "electricity, cable TV, water, internet"},
	{Name: "Transfers", Guideline: "transfers to individuals or own accounts"},
	{Name: "Bank Charges", Guideline: "commissions, VAT, stamp duty, levies, SMS fees"},
	{Name: "Salary & Income", Guideline: "salary, business income, refunds"},
	{Name: "Savings & Investments", Guideline: "savings plans, investments, fixed deposits"},
	{Name: "Shopping", Guideline: "retail, online shopping, POS purchases"},
	{Name: "Health", Guideline: "hospitals, pharmacies, insurance"},
	{Name: "Other", Guideline: "anything that does not fit the categories above"},
}

// GeminiClient categorizes transactions through the Gemini API. Credentials
// come from the environment, as the genai SDK expects.
type GeminiClient struct {
	Model string
	Log   zerolog.Logger
}

func NewGeminiClient(model string, log zerolog.Logger) *GeminiClient {
	return &GeminiClient{Model: model, Log: log}
}

func (c *GeminiClient) Categorize(ctx context.Context, records []models.LLMRecord) ([]Assignment, error) {
	if len(records) == 0 {
		return nil, nil
	}

	prompt := buildPrompt(records)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("categorize: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("categorize: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("categorize: empty response from model")
	}

	assignments, err := decodeAssignments(rawText)
	if err != nil {
		return nil, err
	}

	c.Log.Debug().Int("assignments", len(assignments)).Msg("categorization complete")
	return assignments, nil
}

// buildPrompt assembles the instruction block, the taxonomy and the rendered
// pipe-delimited transaction lines.
func buildPrompt(records []models.LLMRecord) string {
	var b strings.Builder

	b.WriteString("You are a transaction categorizer for Nigerian bank statements.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Assign a category to EVERY transaction line below.\n")
	b.WriteString("- Output STRICT JSON only: a JSON array of objects.\n")
	b.WriteString("- Each object must have: \"id\" (number, matching the line order starting at 1), ")
	b.WriteString("\"category\" (string), \"subcategory\" (string, may be empty).\n\n")

	b.WriteString("Use ONLY the following categories:\n")
	for _, cat := range categories {
		fmt.Fprintf(&b, "- %s: %s\n", cat.Name, cat.Guideline)
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Category must be EXACTLY one of the names above (case-sensitive).\n")
	b.WriteString("- Lines marked TYPE: credit are usually Salary & Income or Transfers.\n")
	b.WriteString("- If you are unsure, use \"Other\" with an empty subcategory.\n")
	b.WriteString("- Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n")
	b.WriteString("- Output must begin with \"[\" and end with \"]\".\n\n")

	b.WriteString("Transactions:\n")
	b.WriteString(llmprep.Render(records))

	return b.String()
}

func decodeAssignments(raw string) ([]Assignment, error) {
	clean := stripModelJSON(raw)

	var assignments []Assignment
	if err := json.Unmarshal([]byte(clean), &assignments); err != nil {
		return nil, fmt.Errorf("categorize: unmarshal JSON: %w", err)
	}
	return assignments, nil
}

// stripModelJSON removes Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func stripModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the first '[' through the last ']' if junk remains.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
