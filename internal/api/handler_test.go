package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairafolio/statement-ingest/internal/categorize"
	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/pipeline"
	"github.com/nairafolio/statement-ingest/internal/registry"
)

type stubRows struct {
	rows []models.RawTransactionRow
}

func (s *stubRows) ExtractRows(ctx context.Context, cleanedText string, bank models.BankType) ([]models.RawTransactionRow, error) {
	return s.rows, nil
}

type stubCategorizer struct {
	assignments []categorize.Assignment
	err         error
}

func (s *stubCategorizer) Categorize(ctx context.Context, records []models.LLMRecord) ([]categorize.Assignment, error) {
	return s.assignments, s.err
}

func newTestApp(cat categorize.Categorizer) *fiber.App {
	reg := registry.New(zerolog.Nop())
	rows := &stubRows{rows: []models.RawTransactionRow{
		{Date: "2024-01-05", Description: "NIP TRANSFER TO JOHN", Debit: "5,000.00", Balance: "95,000.00"},
		{Date: "2024-01-05", Description: "COMMISSION", Debit: "50.00", Balance: "94,950.00"},
	}}
	h := &Handler{
		Pipeline:    pipeline.New(reg, rows, zerolog.Nop()),
		Categorizer: cat,
		Log:         zerolog.Nop(),
	}

	app := fiber.New()
	h.Register(app)
	return app
}

func textRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, resp *http.Response) IngestResponse {
	t.Helper()

	var out IngestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestIngestText(t *testing.T) {
	app := newTestApp(nil)

	req := textRequest(t, map[string]string{"text": "GUARANTY TRUST BANK statement"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.ImportID)
	require.NotNil(t, out.Result)
	assert.Equal(t, models.BankGTBank, out.Result.BankType)
	require.Len(t, out.Result.GroupedTransactions, 1)
	assert.True(t, out.Result.GroupedTransactions[0].HasFees)
}

func TestIngestBankOverride(t *testing.T) {
	app := newTestApp(nil)

	req := textRequest(t, map[string]string{
		"text": "GUARANTY TRUST BANK statement",
		"bank": "uba",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := decodeResponse(t, resp)
	require.NotNil(t, out.Result)
	assert.Equal(t, models.BankUBA, out.Result.BankType)
}

func TestIngestMissingInput(t *testing.T) {
	app := newTestApp(nil)

	req := textRequest(t, map[string]string{})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "no statement provided")
}

func TestIngestWithCategorization(t *testing.T) {
	app := newTestApp(&stubCategorizer{assignments: []categorize.Assignment{
		{ID: 1, Category: "Transfers"},
	}})

	req := textRequest(t, map[string]string{
		"text":       "GUARANTY TRUST BANK statement",
		"categorize": "true",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := decodeResponse(t, resp)
	require.Len(t, out.Assignments, 1)
	assert.Equal(t, "Transfers", out.Assignments[0].Category)
}

func TestIngestCategorizationFailureIsNotFatal(t *testing.T) {
	app := newTestApp(&stubCategorizer{err: errors.New("model unavailable")})

	req := textRequest(t, map[string]string{
		"text":       "GUARANTY TRUST BANK statement",
		"categorize": "true",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	assert.Empty(t, out.Assignments)
	require.NotNil(t, out.Result.Debug)
	assert.Contains(t, out.Result.Debug.Warnings[0], "model unavailable")
}
