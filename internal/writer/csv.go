// Package writer serializes parsed statements for export.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ingest/internal/models"
)

// CSVWriter writes a parsed statement as CSV rows.
type CSVWriter struct {
	IncludeHeader bool // emit statement metadata rows before the columns
}

// WriteToFile writes the statement to a CSV file at path.
func (w *CSVWriter) WriteToFile(path string, stmt *models.BankStatementData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, stmt)
}

// Write writes the statement in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, stmt *models.BankStatementData) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if w.IncludeHeader {
		if stmt.BankName != "" {
			cw.Write([]string{"# Bank", stmt.BankName})
		}
		if stmt.AccountNumber != "" {
			cw.Write([]string{"# Account Number", stmt.AccountNumber})
		}
		if stmt.Period != "" {
			cw.Write([]string{"# Period", stmt.Period})
		}
		if stmt.OpeningBalance != nil {
			cw.Write([]string{"# Opening Balance", stmt.OpeningBalance.StringFixed(2)})
		}
		if stmt.ClosingBalance != nil {
			cw.Write([]string{"# Closing Balance", stmt.ClosingBalance.StringFixed(2)})
		}
		cw.Write([]string{"# Total Debits", stmt.TotalDebits.StringFixed(2)})
		cw.Write([]string{"# Total Credits", stmt.TotalCredits.StringFixed(2)})
	}

	header := []string{"Date", "Description", "Direction", "Amount", "Balance"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, txn := range stmt.Transactions {
		row := []string{
			txn.Date,
			txn.Description,
			string(txn.Direction),
			txn.Amount.StringFixed(2),
			formatBalance(txn.Balance),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	return nil
}

func formatBalance(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
