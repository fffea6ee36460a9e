package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MilestoneKind identifies which rule produced a milestone.
type MilestoneKind string

const (
	MilestoneFirstIncome     MilestoneKind = "first-income"
	MilestoneLastIncome      MilestoneKind = "last-income"
	MilestoneLargestExpense  MilestoneKind = "largest-expense"
	MilestoneLargestIncome   MilestoneKind = "largest-income"
	MilestoneMaxExpenseDay   MilestoneKind = "max-expense-day"
	MilestoneMaxIncomeDay    MilestoneKind = "max-income-day"
	MilestoneIncomeThreshold MilestoneKind = "income-threshold"
	MilestoneFinalStatus     MilestoneKind = "final-status"
)

// Severity is the display tone of a milestone.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityPrimary Severity = "primary"
)

// Milestone is a noteworthy fact derived from a transaction history.
type Milestone struct {
	ID          string          `json:"id"`
	Kind        MilestoneKind   `json:"kind"`
	Icon        string          `json:"icon"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Severity    Severity        `json:"severity"`
	Details     string          `json:"details,omitempty"`
}

// DailyTotal aggregates the transactions sharing one calendar day.
type DailyTotal struct {
	Day   string          `json:"day"`  // YYYY-MM-DD
	Date  time.Time       `json:"date"` // first transaction seen for the day
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Insights holds aggregate statistics over a transaction set.
type Insights struct {
	TotalTransactions  int             `json:"total_transactions"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalExpense       decimal.Decimal `json:"total_expense"`
	AverageIncome      decimal.Decimal `json:"average_income"`
	AverageExpense     decimal.Decimal `json:"average_expense"`
	LargestTransaction decimal.Decimal `json:"largest_transaction"`
	ActiveDays         int             `json:"active_days"`
	IncomeCount        int             `json:"income_count"`
	ExpenseCount       int             `json:"expense_count"`
}

// Report is the top-level structure for the final JSON output.
type Report struct {
	Event       EventSummary `json:"event"`
	Milestones  []Milestone  `json:"milestones"`
	Insights    Insights     `json:"insights"`
	GeneratedAt time.Time    `json:"generated_at"`
}
