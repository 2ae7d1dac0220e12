package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// readEmbeddedText pulls the text layer out of a PDF, page by page in order.
// The pdf library panics on some malformed files, so the whole read runs
// behind a recover guard and reports a plain error instead.
func readEmbeddedText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}

	combined := strings.Join(pages, pageSeparator)
	if combined == "" {
		// Different extraction path inside the library; catches PDFs whose
		// row structure is broken but whose content stream decodes fine.
		combined = readerPlainText(r)
	}

	// Identity-encoded fonts decode into garbage that still has length.
	// Treat low-quality text as absent so the caller falls through to
	// recognition instead of parsing noise.
	if textQuality(combined) <= 0.6 {
		return "", nil
	}
	return combined, nil
}

func readerPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// textQuality returns the ratio of plain ASCII readable characters to total.
// Strict ASCII on purpose: unicode.IsLetter matches the accented garbage
// produced by custom font encodings.
func textQuality(text string) float64 {
	total := 0
	readable := 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(`.,-/:;()'"£$€%&@#!?+=*`, r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
