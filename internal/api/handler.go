// Package api exposes the ingestion pipeline over HTTP for the surrounding
// import feature.
package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nairafolio/statement-ingest/internal/categorize"
	"github.com/nairafolio/statement-ingest/internal/extractor"
	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/pipeline"
)

const version = "1.0.0"

// IngestResponse is the JSON response from POST /api/ingest.
type IngestResponse struct {
	Success     bool                    `json:"success"`
	Error       string                  `json:"error,omitempty"`
	ImportID    string                  `json:"importId,omitempty"`
	Result      *pipeline.Result        `json:"result,omitempty"`
	Assignments []categorize.Assignment `json:"assignments,omitempty"`
	Version     string                  `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Pipeline    *pipeline.Pipeline
	Categorizer categorize.Categorizer
	Log         zerolog.Logger
}

// Register sets up the HTTP routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/ingest", h.handleIngest)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// handleIngest accepts either a statement PDF upload (form field "file") or
// pre-extracted text (form field "text"), runs the pipeline, and optionally
// forwards the payload to the categorization service.
func (h *Handler) handleIngest(c *fiber.Ctx) error {
	rawText := c.FormValue("text")

	if rawText == "" {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "no statement provided: use form field 'file' (PDF) or 'text'")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "only PDF files are supported")
		}

		tmpFile, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to create temp file")
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fileHeader, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to save uploaded file")
		}

		rawText, err = extractor.ExtractTextCombined(tmpPath)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
	}

	opts := pipeline.Options{
		BankType:         models.BankType(c.FormValue("bank")),
		PreserveOriginal: c.FormValue("preserveOriginal") == "true",
		Verbose:          c.FormValue("verbose") == "true",
	}
	if v := c.FormValue("lookAheadRows"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.LookAheadRows = n
		}
	}

	result, err := h.Pipeline.Process(c.UserContext(), rawText, opts)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := IngestResponse{
		Success:  true,
		ImportID: uuid.NewString(),
		Result:   result,
		Version:  version,
	}

	if c.FormValue("categorize") == "true" && h.Categorizer != nil {
		assignments, err := h.Categorizer.Categorize(c.UserContext(), result.LLMData)
		if err != nil {
			// Categorization is an external collaborator; its failure
			// does not invalidate the ingestion result.
			h.Log.Warn().Err(err).Msg("categorization failed")
			if result.Debug == nil {
				result.Debug = &pipeline.Debug{}
			}
			result.Debug.Warnings = append(result.Debug.Warnings,
				fmt.Sprintf("categorization: %v", err))
		} else {
			resp.Assignments = assignments
		}
	}

	return c.JSON(resp)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(IngestResponse{
		Success: false,
		Error:   msg,
	})
}
