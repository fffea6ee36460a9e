package milestone

import (
	"fmt"
	"sort"
	"time"

	"event-milestones/internal/domain"

	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// IncomeThresholds are the cumulative income levels that mark progress, in ascending order.
var IncomeThresholds = []decimal.Decimal{
	decimal.NewFromInt(1_000_000),
	decimal.NewFromInt(5_000_000),
	decimal.NewFromInt(10_000_000),
	decimal.NewFromInt(20_000_000),
	decimal.NewFromInt(50_000_000),
	decimal.NewFromInt(100_000_000),
}

// Engine derives milestones and insights from a transaction list.
// It keeps no state between calls; every call recomputes from its inputs.
type Engine struct {
	loc *time.Location
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the calendar used to bucket transactions by day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock sets the time source used to date the final-status milestone.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine bucketing days in UTC and using the wall clock.
func New(opts ...Option) *Engine {
	e := &Engine{loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateMilestones returns the milestones found in transactions, sorted by date.
// The final-status milestone is added when event is non-nil and there is at least one transaction.
func (e *Engine) GenerateMilestones(transactions []domain.Transaction, event *domain.EventSummary) []domain.Milestone {
	milestones := make([]domain.Milestone, 0)
	if len(transactions) == 0 {
		return milestones
	}

	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	incomes := filterByType(sorted, domain.TransactionTypeIncome)
	expenses := filterByType(sorted, domain.TransactionTypeExpense)

	if len(incomes) > 0 {
		first := incomes[0]
		milestones = append(milestones, transactionMilestone(first, domain.MilestoneFirstIncome, "🎉", "First income", domain.SeveritySuccess))

		last := incomes[len(incomes)-1]
		if last.ID != first.ID {
			milestones = append(milestones, transactionMilestone(last, domain.MilestoneLastIncome, "🏁", "Last income", domain.SeveritySuccess))
		}
	}

	if len(expenses) > 0 {
		milestones = append(milestones, transactionMilestone(largest(expenses), domain.MilestoneLargestExpense, "💸", "Largest expense", domain.SeverityDanger))
	}
	if len(incomes) > 0 {
		milestones = append(milestones, transactionMilestone(largest(incomes), domain.MilestoneLargestIncome, "💰", "Largest income", domain.SeveritySuccess))
	}

	if day, ok := maxDay(e.ComputeDailyTotals(expenses)); ok {
		milestones = append(milestones, dayMilestone(day, domain.MilestoneMaxExpenseDay, "📉", "Biggest spending day", domain.SeverityDanger))
	}
	if day, ok := maxDay(e.ComputeDailyTotals(incomes)); ok {
		milestones = append(milestones, dayMilestone(day, domain.MilestoneMaxIncomeDay, "📈", "Biggest income day", domain.SeveritySuccess))
	}

	milestones = append(milestones, incomeThresholdMilestones(sorted)...)

	if event != nil {
		milestones = append(milestones, finalStatusMilestone(event.Balance, e.now()))
	}

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Date.Before(milestones[j].Date)
	})
	return milestones
}

// ComputeDailyTotals groups transactions by calendar day in first-seen order.
func (e *Engine) ComputeDailyTotals(transactions []domain.Transaction) []domain.DailyTotal {
	var totals []domain.DailyTotal
	index := make(map[string]int)

	for _, tx := range transactions {
		key := e.dayKey(tx.Date)
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, domain.DailyTotal{Day: key, Date: tx.Date, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(tx.Amount)
		totals[i].Count++
	}
	return totals
}

// GetInsights computes aggregate statistics. Empty input yields zero values.
func (e *Engine) GetInsights(transactions []domain.Transaction) domain.Insights {
	insights := domain.Insights{
		TotalIncome:        decimal.Zero,
		TotalExpense:       decimal.Zero,
		AverageIncome:      decimal.Zero,
		AverageExpense:     decimal.Zero,
		LargestTransaction: decimal.Zero,
	}

	days := make(map[string]struct{})
	for i, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			insights.IncomeCount++
			insights.TotalIncome = insights.TotalIncome.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			insights.ExpenseCount++
			insights.TotalExpense = insights.TotalExpense.Add(tx.Amount)
		}
		if i == 0 || tx.Amount.GreaterThan(insights.LargestTransaction) {
			insights.LargestTransaction = tx.Amount
		}
		days[e.dayKey(tx.Date)] = struct{}{}
	}

	insights.TotalTransactions = len(transactions)
	insights.ActiveDays = len(days)
	if insights.IncomeCount > 0 {
		insights.AverageIncome = insights.TotalIncome.Div(decimal.NewFromInt(int64(insights.IncomeCount)))
	}
	if insights.ExpenseCount > 0 {
		insights.AverageExpense = insights.TotalExpense.Div(decimal.NewFromInt(int64(insights.ExpenseCount)))
	}
	return insights
}

func (e *Engine) dayKey(t time.Time) string {
	return t.In(e.loc).Format(time.DateOnly)
}

func filterByType(transactions []domain.Transaction, txType domain.TransactionType) []domain.Transaction {
	var filtered []domain.Transaction
	for _, tx := range transactions {
		if tx.Type == txType {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// largest returns the transaction with the highest amount; the earliest one wins ties.
func largest(transactions []domain.Transaction) domain.Transaction {
	best := transactions[0]
	for _, tx := range transactions[1:] {
		if tx.Amount.GreaterThan(best.Amount) {
			best = tx
		}
	}
	return best
}

// maxDay returns the day with the highest total; the first bucket wins ties.
func maxDay(days []domain.DailyTotal) (domain.DailyTotal, bool) {
	if len(days) == 0 {
		return domain.DailyTotal{}, false
	}
	best := days[0]
	for _, day := range days[1:] {
		if day.Total.GreaterThan(best.Total) {
			best = day
		}
	}
	return best, true
}

// incomeThresholdMilestones walks sorted transactions once, emitting each threshold
// at the income that first brings the running total to or above it.
func incomeThresholdMilestones(sorted []domain.Transaction) []domain.Milestone {
	var milestones []domain.Milestone
	reached := make([]bool, len(IncomeThresholds))
	cumulative := decimal.Zero

	for _, tx := range sorted {
		if tx.Type != domain.TransactionTypeIncome {
			continue
		}
		cumulative = cumulative.Add(tx.Amount)

		for i, threshold := range IncomeThresholds {
			if reached[i] || cumulative.LessThan(threshold) {
				continue
			}
			reached[i] = true
			milestones = append(milestones, domain.Milestone{
				ID:          "milestone-" + threshold.String(),
				Kind:        domain.MilestoneIncomeThreshold,
				Icon:        "🎯",
				Title:       "Total income passed " + formatThreshold(threshold),
				Description: "Reached " + threshold.String(),
				Date:        tx.Date,
				Amount:      threshold,
				Severity:    domain.SeverityPrimary,
			})
		}
	}
	return milestones
}

func transactionMilestone(tx domain.Transaction, kind domain.MilestoneKind, icon, title string, severity domain.Severity) domain.Milestone {
	return domain.Milestone{
		ID:          string(kind),
		Kind:        kind,
		Icon:        icon,
		Title:       title,
		Description: fmt.Sprintf("%s - %s", tx.Title, tx.Amount.String()),
		Date:        tx.Date,
		Amount:      tx.Amount,
		Severity:    severity,
	}
}

func dayMilestone(day domain.DailyTotal, kind domain.MilestoneKind, icon, title string, severity domain.Severity) domain.Milestone {
	return domain.Milestone{
		ID:          string(kind),
		Kind:        kind,
		Icon:        icon,
		Title:       title,
		Description: fmt.Sprintf("%s - %s", day.Day, day.Total.String()),
		Date:        day.Date,
		Amount:      day.Total,
		Severity:    severity,
		Details:     transactionCount(day.Count),
	}
}

func transactionCount(n int) string {
	if n == 1 {
		return "1 transaction"
	}
	return fmt.Sprintf("%d transactions", n)
}

func finalStatusMilestone(balance decimal.Decimal, now time.Time) domain.Milestone {
	m := domain.Milestone{
		ID:          string(domain.MilestoneFinalStatus),
		Kind:        domain.MilestoneFinalStatus,
		Icon:        "✅",
		Title:       "Ended with a surplus",
		Description: "Balance: " + balance.Abs().String(),
		Date:        now,
		Amount:      balance.Abs(),
		Severity:    domain.SeveritySuccess,
	}
	if balance.IsNegative() {
		m.Icon = "⚠️"
		m.Title = "Ended with a deficit"
		m.Severity = domain.SeverityWarning
	}
	return m
}

func formatThreshold(amount decimal.Decimal) string {
	if amount.GreaterThanOrEqual(million) {
		return amount.Div(million).String() + " million"
	}
	return amount.String()
}
