// Package extract derives structured candidate fields from recognized text
// using pattern rules. Extraction is pure and total: malformed or empty input
// yields an all-null result, never an error. Every field is a candidate to be
// confirmed or corrected by the user before it becomes transaction data.
package extract

import "regexp"

// Fields holds the candidates extracted from one document's recognized text.
// A nil field means no rule matched. IssuerName and SuggestedCategory are
// reserved for future enrichment and are never set by the current rules.
type Fields struct {
	Amount            *string `json:"amount"`
	DueDate           *string `json:"due_date"`
	PaymentBarcode    *string `json:"payment_barcode"`
	IssuerName        *string `json:"issuer_name"`
	SuggestedCategory *string `json:"suggested_category"`
}

var (
	// Brazilian currency: optional R$ marker, then digit groups with '.'
	// thousands separators and a mandatory ','-decimal group. A lone "R$"
	// with no digits is deliberately not a match.
	reAmount = regexp.MustCompile(`(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`)

	// DD/MM/YYYY, textual only. No calendar validation: 38/19/9999 matches.
	reDueDate = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

	// Boleto linha digitável, fixed digit-group layout. No checksum.
	reBarcode = regexp.MustCompile(`\d{5}\.\d{5} \d{5}\.\d{6} \d{5}\.\d{6} \d{1,2}`)
)

// FromText scans text with each rule and returns the leftmost match per field.
func FromText(text string) Fields {
	var f Fields
	if m := reAmount.FindStringSubmatch(text); m != nil {
		f.Amount = &m[1]
	}
	if m := reDueDate.FindString(text); m != "" {
		f.DueDate = &m
	}
	if m := reBarcode.FindString(text); m != "" {
		f.PaymentBarcode = &m
	}
	return f
}
