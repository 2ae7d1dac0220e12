// Package parser turns plain statement text into structured bank statement
// data. It is heuristic by design: the input is possibly OCR-noisy text with
// no schema guarantee, so extraction works line by line through ordered
// pattern lists where the first match wins.
package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ingest/internal/models"
)

const maxDescriptionLen = 200

// StatementParser extracts header fields and transactions from raw statement
// text. Parse is a pure function of its input: no I/O, no state carried
// between calls.
type StatementParser struct{}

func New() *StatementParser {
	return &StatementParser{}
}

// Parse walks the non-empty trimmed lines in document order. Header fields
// are claimed by the first line that matches them and never overwritten.
// Totals are recomputed from the accepted transactions, never read from a
// printed totals line — scanned totals are exactly the numbers recognition
// misreads most.
func (p *StatementParser) Parse(raw string) *models.BankStatementData {
	data := &models.BankStatementData{
		Transactions: []models.ExtractedTransaction{},
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = sanitizeRecognizedPunct(line)

		p.scanHeader(line, data)

		if txn, ok := p.matchTransaction(line); ok {
			data.Transactions = append(data.Transactions, txn)
		}
	}

	for _, txn := range data.Transactions {
		switch txn.Direction {
		case models.Debit:
			data.TotalDebits = data.TotalDebits.Add(txn.Amount)
		case models.Credit:
			data.TotalCredits = data.TotalCredits.Add(txn.Amount)
		}
	}

	return data
}

// scanHeader fills any still-unset header field the line can satisfy.
func (p *StatementParser) scanHeader(line string, data *models.BankStatementData) {
	if data.BankName == "" {
		for _, b := range knownBanks {
			if b.re.MatchString(line) {
				data.BankName = b.name
				break
			}
		}
	}

	if data.AccountNumber == "" {
		for _, re := range accountPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				data.AccountNumber = strings.TrimSpace(m[1])
				break
			}
		}
	}

	if data.Period == "" {
		for _, re := range periodPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				data.Period = strings.TrimSpace(m[1])
				break
			}
		}
	}

	lower := strings.ToLower(line)
	if data.OpeningBalance == nil && containsAny(lower, openingKeywords) {
		if amt, ok := firstAmount(line); ok {
			data.OpeningBalance = &amt
		}
	}
	if data.ClosingBalance == nil && containsAny(lower, closingKeywords) {
		if amt, ok := firstAmount(line); ok {
			data.ClosingBalance = &amt
		}
	}
}

// matchTransaction runs the line through the ordered transaction grammar.
// A line contributes at most one transaction: the first accepting pattern
// claims it, and a claimed line that then fails the exclusion filter or
// amount policy is dropped entirely rather than retried.
func (p *StatementParser) matchTransaction(line string) (models.ExtractedTransaction, bool) {
	for _, pat := range txnPatterns {
		m := pat.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cand, ok := pat.extract(m)
		if !ok {
			continue
		}
		return p.buildTransaction(cand)
	}
	return models.ExtractedTransaction{}, false
}

func (p *StatementParser) buildTransaction(cand txnCandidate) (models.ExtractedTransaction, bool) {
	desc := strings.TrimSpace(cand.desc)
	if isExcludedDescription(desc) {
		return models.ExtractedTransaction{}, false
	}
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}

	amount, err := parseAmount(cand.amount)
	if err != nil || !amount.IsPositive() {
		// Unparsable and non-positive amounts are dropped, never stored.
		return models.ExtractedTransaction{}, false
	}

	txn := models.ExtractedTransaction{
		Date:        strings.TrimSpace(cand.date),
		Description: desc,
		Amount:      amount,
		Direction:   classifyDirection(cand.sign, desc),
	}

	if cand.balance != "" {
		if bal, err := parseAmount(cand.balance); err == nil {
			txn.Balance = &bal
		}
	}

	return txn, true
}

// classifyDirection resolves debit vs credit in priority order: an explicit
// sign from the matched pattern, then description keywords, then debit.
func classifyDirection(sign, desc string) models.Direction {
	switch sign {
	case "+":
		return models.Credit
	case "-":
		return models.Debit
	}

	lower := strings.ToLower(desc)
	// Credit keywords first: "payment received" must win over "payment".
	if containsAny(lower, creditKeywords) {
		return models.Credit
	}
	if containsAny(lower, debitKeywords) {
		return models.Debit
	}
	return models.Debit
}

func isExcludedDescription(desc string) bool {
	return containsAny(strings.ToLower(desc), exclusionKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// firstAmount returns the first numeric token on the line as a decimal.
func firstAmount(line string) (decimal.Decimal, bool) {
	m := amountPattern.FindString(line)
	if m == "" {
		return decimal.Zero, false
	}
	amt, err := parseAmount(m)
	if err != nil {
		return decimal.Zero, false
	}
	return amt, true
}
