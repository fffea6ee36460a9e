package usecase

import (
	"strings"
	"time"

	"event-milestones/internal/domain"

	"github.com/shopspring/decimal"
)

// FilterAllTypes is the filter type that keeps both incomes and expenses.
const FilterAllTypes domain.TransactionType = "all"

// TransactionFilter narrows a transaction list before milestones are derived.
// Zero values disable a criterion.
type TransactionFilter struct {
	Type       domain.TransactionType // empty or FilterAllTypes keeps both types
	MinAmount  decimal.NullDecimal
	MaxAmount  decimal.NullDecimal
	SearchTerm string    // case-insensitive match on title
	StartDate  time.Time // inclusive
	EndDate    time.Time // inclusive
}

// FilterTransactions returns the transactions matching every criterion of f, in input order.
func FilterTransactions(transactions []domain.Transaction, f TransactionFilter) []domain.Transaction {
	search := strings.ToLower(f.SearchTerm)

	filtered := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if f.Type != "" && f.Type != FilterAllTypes && tx.Type != f.Type {
			continue
		}
		if f.MinAmount.Valid && tx.Amount.LessThan(f.MinAmount.Decimal) {
			continue
		}
		if f.MaxAmount.Valid && tx.Amount.GreaterThan(f.MaxAmount.Decimal) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(tx.Title), search) {
			continue
		}
		if !f.StartDate.IsZero() && tx.Date.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && tx.Date.After(f.EndDate) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// SummarizeTransactions recomputes an event's totals from its transactions.
func SummarizeTransactions(transactions []domain.Transaction) domain.EventSummary {
	summary := domain.EventSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}
