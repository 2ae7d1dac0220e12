// Package extractor turns raw document bytes into plain text. For PDFs it
// prefers the embedded text layer and falls back to rasterize-and-recognize;
// images go straight to recognition. Expected failures are reported in the
// ExtractionResult, never as a Go error.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/insightdelivered/statement-ingest/internal/models"
)

const (
	// embeddedTextMin is the minimum text-layer length that skips
	// recognition entirely.
	embeddedTextMin = 100
	// maxPages bounds recognition cost; pages past the cap are skipped
	// silently.
	maxPages      = 10
	pageTimeout   = 30 * time.Second
	pageSeparator = "\n\n"
)

// DocumentTextExtractor selects an extraction strategy per document.
type DocumentTextExtractor struct {
	rasterizer Rasterizer
	recognizer Recognizer
	logger     *slog.Logger

	// embeddedText is swappable in tests; production uses the pdf library.
	embeddedText func(data []byte) (string, error)
}

func NewDocumentTextExtractor(rast Rasterizer, rec Recognizer, logger *slog.Logger) *DocumentTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentTextExtractor{
		rasterizer:   rast,
		recognizer:   rec,
		logger:       logger,
		embeddedText: readEmbeddedText,
	}
}

// ExtractText converts document bytes into plain text. It always returns a
// result: the sole failure mode is an empty document, reported through the
// Error field with provider none.
func (e *DocumentTextExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) models.ExtractionResult {
	switch {
	case isPDF(mimeType):
		text, err := e.embeddedText(data)
		if err != nil {
			e.logger.Warn("embedded text extraction failed", "error", err)
		}
		if len(strings.TrimSpace(text)) >= embeddedTextMin {
			return models.ExtractionResult{Text: text, Provider: models.ProviderEmbedded}
		}
		return e.recognizePDF(ctx, data)

	case isImage(mimeType):
		return e.recognizeImage(ctx, data, mimeType)

	default:
		return models.ExtractionResult{
			Provider: models.ProviderNone,
			Error:    fmt.Sprintf("unsupported media type %q", mimeType),
		}
	}
}

// recognizePDF rasterizes pages sequentially up to the cap and recognizes
// each. A failed page is logged and skipped; partial text is the normal
// success path.
func (e *DocumentTextExtractor) recognizePDF(ctx context.Context, data []byte) models.ExtractionResult {
	path, cleanup, err := writeTemp(data, "statement-*.pdf")
	if err != nil {
		return noneResult(fmt.Sprintf("stage document: %v", err))
	}
	defer cleanup()

	pages, err := e.rasterizer.PageCount(ctx, path)
	if err != nil {
		// Unknown page count: walk up to the cap and let render failures
		// terminate the loop.
		e.logger.Warn("page count unavailable, assuming cap", "error", err)
		pages = maxPages
	}
	if pages > maxPages {
		e.logger.Info("page cap applied", "pages", pages, "cap", maxPages)
		pages = maxPages
	}

	var (
		texts    []string
		confSum  float64
		confSeen int
	)
	for page := 1; page <= pages; page++ {
		text, conf, err := e.recognizeOnePage(ctx, path, page)
		if err != nil {
			e.logger.Warn("page skipped", "page", page, "error", err)
			continue
		}
		if text != "" {
			texts = append(texts, text)
			confSum += conf
			confSeen++
		}
	}

	if len(texts) == 0 {
		return noneResult("no text could be recognized from document")
	}
	return models.ExtractionResult{
		Text:       strings.Join(texts, pageSeparator),
		Confidence: confSum / float64(confSeen),
		Provider:   models.ProviderRecognized,
	}
}

// recognizeOnePage scopes the rendered page image so it is released on every
// exit path before the next page starts.
func (e *DocumentTextExtractor) recognizeOnePage(ctx context.Context, path string, page int) (string, float64, error) {
	pageCtx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	img, err := e.rasterizer.RenderPage(pageCtx, path, page)
	if err != nil {
		return "", 0, fmt.Errorf("render: %w", err)
	}
	defer img.Close()

	rec, err := e.recognizer.Recognize(pageCtx, img.Path)
	if err != nil {
		return "", 0, fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(rec.Text), rec.Confidence, nil
}

// recognizeImage treats the image itself as the single rasterized page.
func (e *DocumentTextExtractor) recognizeImage(ctx context.Context, data []byte, mimeType string) models.ExtractionResult {
	path, cleanup, err := writeTemp(data, "statement-*"+imageExt(mimeType))
	if err != nil {
		return noneResult(fmt.Sprintf("stage image: %v", err))
	}
	defer cleanup()

	pageCtx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	rec, err := e.recognizer.Recognize(pageCtx, path)
	if err != nil {
		return noneResult(fmt.Sprintf("recognition failed: %v", err))
	}

	text := strings.TrimSpace(rec.Text)
	if text == "" {
		return noneResult("no text could be recognized from image")
	}
	return models.ExtractionResult{
		Text:       text,
		Confidence: rec.Confidence,
		Provider:   models.ProviderRecognized,
	}
}

func noneResult(msg string) models.ExtractionResult {
	return models.ExtractionResult{Provider: models.ProviderNone, Error: msg}
}

func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func isPDF(mimeType string) bool {
	return strings.EqualFold(normalizeMime(mimeType), "application/pdf")
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(normalizeMime(mimeType)), "image/")
}

func normalizeMime(mimeType string) string {
	// Drop parameters like "; charset=binary".
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(mimeType)
}

func imageExt(mimeType string) string {
	switch strings.ToLower(normalizeMime(mimeType)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/tiff":
		return ".tif"
	default:
		return ".img"
	}
}
