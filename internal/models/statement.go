package models

import "github.com/shopspring/decimal"

// Provider identifies which extraction strategy produced the text.
type Provider string

const (
	// ProviderEmbedded means the text came from the PDF's own text layer.
	ProviderEmbedded Provider = "embedded"
	// ProviderRecognized means the text came from optical recognition.
	ProviderRecognized Provider = "recognized"
	// ProviderNone means no strategy produced any text.
	ProviderNone Provider = "none"
)

// ExtractionResult is the outcome of one text-extraction call.
// Expected failures are reported through Error, never through a Go error —
// callers check Error and surface it to the end user.
type ExtractionResult struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence,omitempty"` // 0-100, recognition only
	Provider   Provider `json:"provider"`
	Error      string   `json:"error,omitempty"`
}

// Direction classifies a transaction as money in or money out.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// ExtractedTransaction is one transaction row as found in the statement text.
// Date is kept as written in the source, not normalized to a calendar type.
// Amount is always positive; Direction carries the sign.
type ExtractedTransaction struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Direction   Direction        `json:"direction"`
	Balance     *decimal.Decimal `json:"balance,omitempty"` // running balance, when printed
}

// BankStatementData is the structured record produced from one statement.
// TotalDebits and TotalCredits are always recomputed from Transactions,
// never copied from a scanned totals line.
type BankStatementData struct {
	AccountNumber  string                 `json:"accountNumber,omitempty"`
	BankName       string                 `json:"bankName,omitempty"`
	Period         string                 `json:"period,omitempty"`
	Transactions   []ExtractedTransaction `json:"transactions"`
	TotalDebits    decimal.Decimal        `json:"totalDebits"`
	TotalCredits   decimal.Decimal        `json:"totalCredits"`
	OpeningBalance *decimal.Decimal       `json:"openingBalance,omitempty"`
	ClosingBalance *decimal.Decimal       `json:"closingBalance,omitempty"`
}
