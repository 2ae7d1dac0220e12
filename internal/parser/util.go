package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches a monetary token, optionally negative or
// currency-prefixed: 25.99, 1,234.56, -£1,234.56.
var amountPattern = regexp.MustCompile(`-?[£$€]?[\d,]+\.\d{2}`)

var currencyStripper = strings.NewReplacer(
	"£", "",
	"$", "",
	"€", "",
	",", "",
	" ", "",
	" ", "",
)

// parseAmount converts a string like "1,234.56" or "-£1,234.56" to a
// decimal. Thousands separators and currency symbols are stripped first.
func parseAmount(s string) (decimal.Decimal, error) {
	s = currencyStripper.Replace(strings.TrimSpace(s))
	return decimal.NewFromString(s)
}

// Recognition engines misread punctuation inside numbers: periods come back
// as semicolons or colons ("1,234; 56", "1,234:56"). These run before
// pattern matching so noisy amounts still parse.
var (
	semiAsPeriod  = regexp.MustCompile(`(\d);(\s*)(\d)`)
	colonAsPeriod = regexp.MustCompile(`(\d):(\d)`)
	trailingColon = regexp.MustCompile(`(\d):(\s|$)`)
)

func sanitizeRecognizedPunct(line string) string {
	line = semiAsPeriod.ReplaceAllString(line, "$1.$3")
	line = colonAsPeriod.ReplaceAllString(line, "$1.$2")
	line = trailingColon.ReplaceAllString(line, "$1$2")
	return line
}
