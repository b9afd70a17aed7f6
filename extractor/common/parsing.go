package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnparseableDate is returned when none of a bank's date layouts match.
// Callers treat it as "skip row, log warning", never as fatal.
var ErrUnparseableDate = errors.New("unparseable date")

var nonAmountRegex = regexp.MustCompile(`[^0-9.\-]`)

// ParseAmount normalizes a monetary string into a decimal: currency symbols,
// thousands separators and whitespace are stripped, and parenthesized values
// become negative. Empty or unparseable input yields zero rather than an
// error; a zero-amount row is still recorded, not dropped.
func ParseAmount(raw string) decimal.Decimal {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}

	// Some exports use "." as thousands separator and "," as decimal point;
	// the last separator present tells the two conventions apart.
	lastComma := strings.LastIndex(text, ",")
	lastDot := strings.LastIndex(text, ".")
	if lastComma > lastDot {
		text = strings.ReplaceAll(text, ".", "")
		text = strings.Replace(text, ",", ".", 1)
	}
	text = strings.ReplaceAll(text, ",", "")

	text = nonAmountRegex.ReplaceAllString(text, "")
	if text == "" || text == "-" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		amount = amount.Neg()
	}
	return amount
}

// ParseDateAny tries each layout in order and returns the first successful
// parse, truncated to calendar-day granularity.
func ParseDateAny(raw string, layouts []string) (time.Time, error) {
	text := strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
}

// DigitsOnly strips everything but digits, used when synthesizing document
// numbers from date and amount fragments.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
