package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reAmountNoise = regexp.MustCompile(`[^\d,.]`)
	reShapeBRDate = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// ParseAmount converts an extracted or user-edited Brazilian currency string
// ("R$ 1.234,56") into a decimal value.
func ParseAmount(s string) (float64, error) {
	cleaned := reAmountNoise.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in amount %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

// ToISODate converts a DD/MM/YYYY string into ISO YYYY-MM-DD. Only the shape
// is validated; calendar validity is the user's responsibility at review time.
func ToISODate(s string) (string, error) {
	m := reShapeBRDate.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", fmt.Errorf("date %q is not DD/MM/YYYY", s)
	}
	return m[3] + "-" + m[2] + "-" + m[1], nil
}
