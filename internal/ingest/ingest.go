// Package ingest is the facade the upload pipeline calls: raw document
// bytes in, extracted text and structured statement data out.
package ingest

import (
	"context"
	"log/slog"

	"github.com/insightdelivered/statement-ingest/internal/extractor"
	"github.com/insightdelivered/statement-ingest/internal/models"
	"github.com/insightdelivered/statement-ingest/internal/parser"
)

// Service wires the text extractor and the statement parser behind two entry
// points. It is stateless apart from the recognizer's process-lifetime engine
// handle; retries belong to the caller.
type Service struct {
	extractor *extractor.DocumentTextExtractor
	parser    *parser.StatementParser
}

func NewService(ex *extractor.DocumentTextExtractor, p *parser.StatementParser) *Service {
	return &Service{extractor: ex, parser: p}
}

// NewDefaultService builds a Service on the poppler rasterizer and tesseract
// recognizer.
func NewDefaultService(logger *slog.Logger) *Service {
	ex := extractor.NewDocumentTextExtractor(
		extractor.NewPopplerRasterizer(),
		extractor.NewTesseractRecognizer(),
		logger,
	)
	return NewService(ex, parser.New())
}

// ExtractText turns document bytes into plain text. Expected failures come
// back inside the result, never as an error.
func (s *Service) ExtractText(ctx context.Context, data []byte, mimeType string) models.ExtractionResult {
	return s.extractor.ExtractText(ctx, data, mimeType)
}

// ParseStatement turns plain statement text into structured data. It always
// returns a statement, possibly with no transactions.
func (s *Service) ParseStatement(text string) *models.BankStatementData {
	return s.parser.Parse(text)
}

// Process runs extraction and parsing in one call. The extraction result is
// returned alongside the statement so the caller can surface partial-failure
// detail; when extraction fails the statement is empty.
func (s *Service) Process(ctx context.Context, data []byte, mimeType string) (models.ExtractionResult, *models.BankStatementData) {
	result := s.ExtractText(ctx, data, mimeType)
	return result, s.ParseStatement(result.Text)
}
