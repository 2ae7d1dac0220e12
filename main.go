package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/insightdelivered/statement-ingest/internal/api"
	"github.com/insightdelivered/statement-ingest/internal/ingest"
	"github.com/insightdelivered/statement-ingest/internal/logger"
	"github.com/insightdelivered/statement-ingest/internal/writer"
)

const version = "1.0.0"

func main() {
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	formatFlag := flag.String("format", "json", "Output format: json or csv")
	outputFlag := flag.String("output", "", "Output file path (defaults to stdout)")
	mimeFlag := flag.String("mime", "", "Override MIME type (detected from extension if omitted)")
	expectFlag := flag.Int("expect", -1, "Expected transaction count; exit non-zero on mismatch")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Ingest
by Insight Delivered

Extracts text from bank statement PDFs and images (embedded text layer or
OCR) and parses it into structured transactions.

Usage:
  statement-ingest [flags] <statement.pdf|statement.png> [more files...]
  statement-ingest -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement to JSON on stdout
  statement-ingest statement.pdf

  # Emit CSV instead
  statement-ingest -format=csv -output=transactions.csv statement.pdf

  # Sanity-check a known fixture
  statement-ingest -expect=31 debug-statement.pdf

  # Run the HTTP API (PORT env, default 8080)
  statement-ingest -serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-ingest v%s\n", version)
		return
	}

	godotenv.Load()
	logger.Init()
	svc := ingest.NewDefaultService(logger.Default())

	if *serveFlag {
		serve(svc)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, path := range flag.Args() {
		if err := processFile(svc, path, *mimeFlag, *formatFlag, *outputFlag, *expectFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func serve(svc *ingest.Service) {
	app := fiber.New(fiber.Config{BodyLimit: 32 << 20})
	api.NewHandler(svc, logger.Default()).Register(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Default().Info("listening", "port", port)
	if err := app.Listen(":" + port); err != nil {
		logger.Default().Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func processFile(svc *ingest.Service, path, mimeOverride, format, output string, expect int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	mimeType := mimeOverride
	if mimeType == "" {
		mimeType = mimeFromExt(path)
	}

	result, stmt := svc.Process(context.Background(), data, mimeType)
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "  extraction: %s\n", result.Error)
	} else {
		fmt.Fprintf(os.Stderr, "  extracted via %s, %d transaction(s)\n",
			result.Provider, len(stmt.Transactions))
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.Write(out, stmt); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stmt); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (use json or csv)", format)
	}

	// Count mismatches against a known fixture are surfaced for review, not
	// silently corrected.
	if expect >= 0 && len(stmt.Transactions) != expect {
		return fmt.Errorf("expected %d transactions, extracted %d", expect, len(stmt.Transactions))
	}

	return nil
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return ""
	}
}
