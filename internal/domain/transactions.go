package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the direction of a transaction (income or expense).
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single income or expense logged against an event.
type Transaction struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Type   TransactionType `json:"type"`
	Amount decimal.Decimal `json:"amount"` // Never negative
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// EventSummary carries the running totals kept for an event.
// Balance is supplied by the caller and is not recomputed by the engine.
type EventSummary struct {
	Name         string          `json:"name,omitempty"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}
