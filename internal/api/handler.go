// Package api is the thin HTTP shim the upload pipeline calls. It does no
// storage and no auth; it moves bytes into the ingest facade and JSON out.
package api

import (
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-ingest/internal/ingest"
	"github.com/insightdelivered/statement-ingest/internal/models"
)

// ExtractResponse is the JSON body for /api/extract.
type ExtractResponse struct {
	Success   bool                      `json:"success"`
	Error     string                    `json:"error,omitempty"`
	Result    *models.ExtractionResult  `json:"result,omitempty"`
	Statement *models.BankStatementData `json:"statement,omitempty"`
}

// ParseResponse is the JSON body for /api/parse.
type ParseResponse struct {
	Success   bool                      `json:"success"`
	Error     string                    `json:"error,omitempty"`
	Statement *models.BankStatementData `json:"statement,omitempty"`
	Count     int                       `json:"count"`
}

// Handler exposes the ingest service over HTTP.
type Handler struct {
	svc    *ingest.Service
	logger *slog.Logger
}

func NewHandler(svc *ingest.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/extract", h.handleExtract)
	app.Post("/api/parse", h.handleParse)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

// handleExtract runs text extraction on an uploaded document. Extraction
// failure is a 200 with result.error set: the contract is graceful
// degradation, and the caller surfaces the message to the user. Request
// shape errors are the only 4xx.
func (h *Handler) handleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ExtractResponse{
			Error: "no file uploaded; use form field 'file'",
		})
	}

	data, err := readUpload(file)
	if err != nil {
		h.logger.Error("upload read failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ExtractResponse{
			Error: "failed to read upload",
		})
	}

	mimeType := c.FormValue("mimeType")
	if mimeType == "" {
		mimeType = guessMime(file)
	}

	resp := ExtractResponse{Success: true}
	if c.FormValue("parse") == "true" {
		result, stmt := h.svc.Process(c.UserContext(), data, mimeType)
		resp.Result = &result
		resp.Statement = stmt
	} else {
		result := h.svc.ExtractText(c.UserContext(), data, mimeType)
		resp.Result = &result
	}
	return c.JSON(resp)
}

// handleParse parses already-extracted statement text, taken from the "text"
// form field or the raw request body.
func (h *Handler) handleParse(c *fiber.Ctx) error {
	text := c.FormValue("text")
	if text == "" {
		text = string(c.Body())
	}
	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ParseResponse{
			Error: "no statement text provided",
		})
	}

	stmt := h.svc.ParseStatement(text)
	return c.JSON(ParseResponse{
		Success:   true,
		Statement: stmt,
		Count:     len(stmt.Transactions),
	})
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// guessMime prefers the declared Content-Type and falls back to the file
// extension.
func guessMime(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return ""
	}
}
