package entity

import "time"

// Transaction is a committed expense row in the transaction store.
type Transaction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"` // always "expense" for committed receipts
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Date           string    `json:"date"` // ISO YYYY-MM-DD
	Account        string    `json:"account"`
	LinhaDigitavel *string   `json:"linha_digitavel,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
