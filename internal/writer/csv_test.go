package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ingest/internal/models"
)

func sampleStatement() *models.BankStatementData {
	balance := decimal.RequireFromString("954.50")
	opening := decimal.RequireFromString("1000.00")
	return &models.BankStatementData{
		BankName:      "Chase",
		AccountNumber: "1234567890",
		Period:        "01/01/2024 - 01/31/2024",
		Transactions: []models.ExtractedTransaction{
			{
				Date:        "01/05/2024",
				Description: "GROCERY MART",
				Amount:      decimal.RequireFromString("45.50"),
				Direction:   models.Debit,
				Balance:     &balance,
			},
			{
				Date:        "01/06/2024",
				Description: "DEPOSIT",
				Amount:      decimal.RequireFromString("100.00"),
				Direction:   models.Credit,
			},
		},
		TotalDebits:    decimal.RequireFromString("45.50"),
		TotalCredits:   decimal.RequireFromString("100.00"),
		OpeningBalance: &opening,
	}
}

func TestWriteWithHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, sampleStatement()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "# Bank,Chase", lines[0])
	assert.Contains(t, lines, "# Total Debits,45.50")
	assert.Contains(t, lines, "# Total Credits,100.00")
	assert.Contains(t, lines, "Date,Description,Direction,Amount,Balance")
	assert.Contains(t, lines, "01/05/2024,GROCERY MART,debit,45.50,954.50")
	assert.Contains(t, lines, "01/06/2024,DEPOSIT,credit,100.00,")
}

func TestWriteWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleStatement()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Direction,Amount,Balance", lines[0])
}

func TestWriteEmptyStatement(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	stmt := &models.BankStatementData{Transactions: []models.ExtractedTransaction{}}
	require.NoError(t, w.Write(&buf, stmt))

	assert.Equal(t, "Date,Description,Direction,Amount,Balance", strings.TrimSpace(buf.String()))
}
