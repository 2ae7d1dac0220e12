package parser

import "regexp"

// dateToken matches the date formats seen across statement layouts:
// 01/15/2024, 1-15-24, 15 Jan 2024, Jan 15, 2024.
const dateToken = `(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}` +
	`|\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4}` +
	`|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4})`

const amountToken = `[\d,]+\.\d{2}`

// txnCandidate holds the raw capture groups from a matched transaction line
// before normalization.
type txnCandidate struct {
	date    string
	desc    string
	amount  string
	sign    string // "+", "-" or ""
	balance string // running balance column, when the pattern has one
}

// txnPattern pairs a line pattern with its field extractor. The extractor may
// veto a structural match (ok=false), in which case the next pattern in order
// is tried.
type txnPattern struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) (txnCandidate, bool)
}

// trailingAmount detects a description that swallowed a second numeric
// column. Pattern dateAmountSign is anchored on the last number of the line,
// so on "date desc amount balance" lines its description capture ends in the
// amount; those lines belong to dateAmountBalance instead.
var trailingAmount = regexp.MustCompile(amountToken + `$`)

// txnPatterns is the transaction grammar. Order is load-bearing: evaluation
// stops at the first pattern whose extractor accepts the line, and the later
// entries are fallbacks, not alternatives. Do not reorder.
var txnPatterns = []txnPattern{
	{
		name: "dateAmountSign",
		re: regexp.MustCompile(`^(` + dateToken + `)\s+(.+?)\s+([+-]?)(` +
			amountToken + `)\s*([+-]?)$`),
		extract: func(m []string) (txnCandidate, bool) {
			if trailingAmount.MatchString(m[2]) {
				return txnCandidate{}, false
			}
			sign := m[3]
			if sign == "" {
				sign = m[5]
			}
			return txnCandidate{date: m[1], desc: m[2], amount: m[4], sign: sign}, true
		},
	},
	{
		name: "dateAmountBalance",
		re: regexp.MustCompile(`^(` + dateToken + `)\s+(.+?)\s+(` +
			amountToken + `)\s+(-?` + amountToken + `)$`),
		extract: func(m []string) (txnCandidate, bool) {
			if trailingAmount.MatchString(m[2]) {
				return txnCandidate{}, false
			}
			return txnCandidate{date: m[1], desc: m[2], amount: m[3], balance: m[4]}, true
		},
	},
	{
		name: "descAmountDate",
		re: regexp.MustCompile(`^(.+?)\s+\$?(` + amountToken + `)\s*([+-]?)\s+(` +
			dateToken + `)$`),
		extract: func(m []string) (txnCandidate, bool) {
			return txnCandidate{date: m[4], desc: m[1], amount: m[2], sign: m[3]}, true
		},
	},
	{
		name: "dateDollarAmount",
		re: regexp.MustCompile(`^(` + dateToken + `)\s+(.+?)\s+\$(` +
			amountToken + `)$`),
		extract: func(m []string) (txnCandidate, bool) {
			return txnCandidate{date: m[1], desc: m[2], amount: m[3]}, true
		},
	},
}

// knownBanks maps institution name patterns to the canonical name reported
// in the header. First match across the document wins.
var knownBanks = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)\bJPMorgan Chase\b`), "JPMorgan Chase"},
	{regexp.MustCompile(`(?i)\bChase\b`), "Chase"},
	{regexp.MustCompile(`(?i)\bBank of America\b`), "Bank of America"},
	{regexp.MustCompile(`(?i)\bWells Fargo\b`), "Wells Fargo"},
	{regexp.MustCompile(`(?i)\bCitibank\b`), "Citibank"},
	{regexp.MustCompile(`(?i)\bCapital One\b`), "Capital One"},
	{regexp.MustCompile(`(?i)\bU\.?S\.? Bank\b`), "U.S. Bank"},
	{regexp.MustCompile(`(?i)\bPNC Bank\b`), "PNC Bank"},
	{regexp.MustCompile(`(?i)\bTD Bank\b`), "TD Bank"},
	{regexp.MustCompile(`(?i)\bTruist\b`), "Truist"},
	{regexp.MustCompile(`(?i)\bAlly Bank\b`), "Ally Bank"},
	{regexp.MustCompile(`(?i)\bNavy Federal\b`), "Navy Federal Credit Union"},
	{regexp.MustCompile(`(?i)\bHSBC\b`), "HSBC"},
	{regexp.MustCompile(`(?i)\bBarclays\b`), "Barclays"},
	{regexp.MustCompile(`(?i)\bMetro Bank\b`), "Metro Bank"},
	{regexp.MustCompile(`(?i)\bSantander\b`), "Santander"},
	{regexp.MustCompile(`(?i)\bNatWest\b`), "NatWest"},
	{regexp.MustCompile(`(?i)\bLloyds\b`), "Lloyds"},
}

// accountPatterns find the account number. Ordered from explicit labels to
// masked forms; first match wins.
var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)account\s*(?:number|no\.?|#)\s*[:#]?\s*([0-9Xx*-]{4,20})`),
	regexp.MustCompile(`(?i)acct\.?\s*(?:number|no\.?|#)?\s*[:#]?\s*([0-9Xx*-]{4,20})`),
	regexp.MustCompile(`(?i)ending\s+in\s+(\d{4})`),
	regexp.MustCompile(`([Xx*]{2,}\d{4})`),
}

// periodPatterns find the statement period, labeled forms first and a bare
// date range as the fallback.
var periodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)statement\s+period\s*:?\s*(.+)`),
	regexp.MustCompile(`(?i)period\s+ending\s*:?\s*(.+)`),
	regexp.MustCompile(`(?i)for\s+the\s+month\s+of\s*:?\s*(.+)`),
	regexp.MustCompile(`(` + dateToken + `\s*(?:-|–|to|through)\s*` + dateToken + `)`),
}

var (
	openingKeywords = []string{"opening balance", "beginning balance", "previous balance", "balance forward"}
	closingKeywords = []string{"closing balance", "ending balance", "new balance", "current balance"}
)

// exclusionKeywords mark summary and footer lines that can structurally
// resemble transaction rows, especially under recognition noise.
var exclusionKeywords = []string{"total", "balance", "summary", "page"}

var (
	creditKeywords = []string{"deposit", "credit", "payment received", "refund", "transfer in", "interest"}
	debitKeywords  = []string{"withdrawal", "debit", "payment", "purchase", "fee", "charge", "transfer out"}
)
