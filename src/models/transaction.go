package models

import "time"

const (
	TransactionTypeIncome    = "income"
	TransactionTypeExpense   = "expense"
	TransactionTypeAsset     = "asset"
	TransactionTypeLiability = "liability"
)

type Transaction struct {
	ID          string    `json:"id"`
	UserID      int       `json:"user_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	CategoryID  *string   `json:"category_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	IsRecurring bool      `json:"is_recurring"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeAsset, TransactionTypeLiability:
		return true
	}
	return false
}

// TransactionFilter narrows a transaction listing. Zero values mean "no filter".
type TransactionFilter struct {
	Type       string
	CategoryID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
