// Package docparse pulls structured transaction fields out of OCR text with
// fixed heuristics: first monetary pattern, first date pattern, first
// plausible merchant line. Missing fields degrade, they do not fail.
package docparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Oliver369X/agents-service/internal/resilience"
)

// Fields holds whatever could be extracted from a document.
type Fields struct {
	Amount   float64 `json:"amount,omitempty"`
	Merchant string  `json:"merchant,omitempty"`
	Date     string  `json:"date,omitempty"`
}

var (
	amountRe = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	dateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})\b`)
)

// ParseReceipt extracts amount, date, and merchant from document text.
// Each missing field contributes a ParseError to errs; callers proceed with
// the fields that were found.
func ParseReceipt(text string) (Fields, []error) {
	var fields Fields
	var errs []error

	if m := amountRe.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			fields.Amount = v
		}
	}
	if fields.Amount == 0 {
		errs = append(errs, &resilience.ParseError{Field: "amount"})
	}

	if m := dateRe.FindString(text); m != "" {
		fields.Date = m
	} else {
		errs = append(errs, &resilience.ParseError{Field: "date"})
	}

	fields.Merchant = firstMerchantLine(text)
	if fields.Merchant == "" {
		errs = append(errs, &resilience.ParseError{Field: "merchant"})
	}

	return fields, errs
}

// firstMerchantLine returns the first line that looks like a business name:
// non-empty, not dominated by digits, and not a labeled field.
func firstMerchantLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, ":") {
			continue
		}
		if amountRe.MatchString(line) || dateRe.MatchString(line) {
			continue
		}
		digits := 0
		for _, r := range line {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits*2 >= len(line) {
			continue
		}
		return line
	}
	return ""
}
