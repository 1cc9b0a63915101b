package constants

import "strings"

type Category string

// Expense categories. Stable IDs: store these exact strings.
const (
	Housing        Category = "housing"
	Transportation Category = "transportation"
	Food           Category = "food"
	Healthcare     Category = "healthcare"
	Debt           Category = "debt"
	Savings        Category = "savings"
	Entertainment  Category = "entertainment"
	Personal       Category = "personal"
	Subscriptions  Category = "subscriptions"
	Pets           Category = "pets"
	Gifts          Category = "gifts"
	Miscellaneous  Category = "miscellaneous"
)

var expenseCategories = []Category{
	Housing,
	Transportation,
	Food,
	Healthcare,
	Debt,
	Savings,
	Entertainment,
	Personal,
	Subscriptions,
	Pets,
	Gifts,
	Miscellaneous,
}

// Accounts a transaction can be committed against. The first entry is the
// default when the user does not choose one.
var Accounts = []string{"checking", "savings", "cash", "credit"}

// DefaultAccount returns the account used when a draft carries none.
func DefaultAccount() string { return Accounts[0] }

func ExpenseCategories() []string {
	out := make([]string, len(expenseCategories))
	for i, c := range expenseCategories {
		out[i] = string(c)
	}
	return out
}

// IsAccount reports whether id names a known account.
func IsAccount(id string) bool {
	for _, a := range Accounts {
		if a == id {
			return true
		}
	}
	return false
}

// Canonicalize maps free-form user or model input onto a known expense
// category. Returns (Miscellaneous, false) when nothing matches.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Miscellaneous, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Category{
		"moradia":        Housing,
		"rent":           Housing,
		"aluguel":        Housing,
		"transporte":     Transportation,
		"uber":           Transportation,
		"alimentacao":    Food,
		"mercado":        Food,
		"groceries":      Food,
		"saude":          Healthcare,
		"plano de saude": Healthcare,
		"divida":         Debt,
		"boleto":         Debt,
		"lazer":          Entertainment,
		"assinatura":     Subscriptions,
		"streaming":      Subscriptions,
		"presente":       Gifts,
		"outros":         Miscellaneous,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range expenseCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	return Miscellaneous, false
}
