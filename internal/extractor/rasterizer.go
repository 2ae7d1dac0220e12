package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// renderDPI is a fixed tradeoff between recognition accuracy and rendering
// cost. Not a per-call tunable.
const renderDPI = "200"

// PageImage is one rendered page as a scoped temporary resource. Close
// removes the backing temp directory and must run on every exit path.
type PageImage struct {
	Path string
	dir  string
}

func (p *PageImage) Close() {
	if p.dir != "" {
		os.RemoveAll(p.dir)
	}
}

// Rasterizer renders single PDF pages to raster images.
type Rasterizer interface {
	// PageCount reports the number of pages in the PDF at path.
	PageCount(ctx context.Context, path string) (int, error)
	// RenderPage renders one page (1-indexed) to an image. The caller owns
	// the returned PageImage and must Close it.
	RenderPage(ctx context.Context, path string, page int) (*PageImage, error)
}

// PopplerRasterizer renders pages with the pdftoppm and pdfinfo commands
// from poppler-utils.
type PopplerRasterizer struct{}

func NewPopplerRasterizer() *PopplerRasterizer {
	return &PopplerRasterizer{}
}

func (r *PopplerRasterizer) PageCount(ctx context.Context, path string) (int, error) {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err != nil {
				return 0, fmt.Errorf("pdfinfo page count unreadable: %w", err)
			}
			return n, nil
		}
	}
	return 0, fmt.Errorf("pdfinfo reported no page count for %s", path)
}

func (r *PopplerRasterizer) RenderPage(ctx context.Context, path string, page int) (*PageImage, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("pdftoppm not available (install poppler-utils): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "raster-page-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	pageStr := strconv.Itoa(page)
	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-r", renderDPI, "-png", "-f", pageStr, "-l", pageStr, path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("pdftoppm failed for page %d: %w (output: %s)", page, err, out)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("read temp dir: %w", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			return &PageImage{Path: filepath.Join(tmpDir, e.Name()), dir: tmpDir}, nil
		}
	}

	os.RemoveAll(tmpDir)
	return nil, fmt.Errorf("pdftoppm produced no image for page %d", page)
}
