package extractor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// charWhitelist restricts recognition to alphanumerics and statement
// punctuation, suppressing noise characters cheap scans produce.
const charWhitelist = `0123456789abcdefghijklmnopqrstuvwxyz` +
	`ABCDEFGHIJKLMNOPQRSTUVWXYZ.,:;/#&*'()+-$£€ `

// RecognizedPage is the output of recognizing one page image.
type RecognizedPage struct {
	Text       string
	Confidence float64 // mean word confidence, 0-100
}

// Recognizer converts a page image into text plus a confidence score.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (RecognizedPage, error)
}

// TesseractRecognizer wraps the tesseract command. The engine configuration
// is built once per process and reused; the adapter is safe for sequential
// use, and concurrent callers must synchronize externally or pool one
// recognizer per worker.
type TesseractRecognizer struct {
	initOnce sync.Once
	initErr  error
	baseArgs []string
}

func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{}
}

// init resolves the binary and fixes the engine configuration: automatic
// page segmentation, preserved inter-word spacing, restricted character set.
func (t *TesseractRecognizer) init() {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.initErr = fmt.Errorf("tesseract not available (install tesseract-ocr): %w", err)
		return
	}
	t.baseArgs = []string{
		"-l", "eng",
		"--psm", "3",
		"-c", "preserve_interword_spaces=1",
		"-c", "tessedit_char_whitelist=" + charWhitelist,
	}
}

// Recognize runs tesseract over the image in TSV mode, which yields both the
// word stream and per-word confidences in a single pass.
func (t *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (RecognizedPage, error) {
	t.initOnce.Do(t.init)
	if t.initErr != nil {
		return RecognizedPage{}, t.initErr
	}

	args := append([]string{imagePath, "stdout"}, t.baseArgs...)
	args = append(args, "tsv")
	out, err := exec.CommandContext(ctx, "tesseract", args...).Output()
	if err != nil {
		return RecognizedPage{}, fmt.Errorf("tesseract failed for %s: %w", imagePath, err)
	}

	text, conf := parseTSV(string(out))
	return RecognizedPage{Text: text, Confidence: conf}, nil
}

// parseTSV rebuilds line-oriented text from tesseract's TSV word stream and
// averages the word confidences. TSV columns: level, page_num, block_num,
// par_num, line_num, word_num, left, top, width, height, conf, text.
func parseTSV(tsv string) (string, float64) {
	type lineKey struct {
		block, par, line int
	}

	var (
		sb       strings.Builder
		prev     lineKey
		started  bool
		confSum  float64
		confSeen int
	)

	for _, row := range strings.Split(tsv, "\n") {
		cols := strings.Split(row, "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		word := cols[11]
		if strings.TrimSpace(word) == "" {
			continue
		}

		block, _ := strconv.Atoi(cols[2])
		par, _ := strconv.Atoi(cols[3])
		line, _ := strconv.Atoi(cols[4])
		key := lineKey{block, par, line}

		if started && key != prev {
			sb.WriteByte('\n')
		} else if started {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
		prev = key
		started = true

		if conf, err := strconv.ParseFloat(cols[10], 64); err == nil && conf >= 0 {
			confSum += conf
			confSeen++
		}
	}

	if confSeen == 0 {
		return sb.String(), 0
	}
	return sb.String(), confSum / float64(confSeen)
}

// IsRecognitionAvailable reports whether the external recognition tools are
// installed. Used by callers that want to degrade before accepting work.
func IsRecognitionAvailable() bool {
	_, err1 := exec.LookPath("pdftoppm")
	_, err2 := exec.LookPath("tesseract")
	return err1 == nil && err2 == nil
}
