package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-milestones/internal/domain"
	"event-milestones/internal/logger"
	"event-milestones/internal/milestone"
)

// ErrNoTransactionSource is returned when a report is requested without a source to read from.
var ErrNoTransactionSource = errors.New("no transaction source given")

// ReportRequest describes one report to build.
type ReportRequest struct {
	Source    string
	EventName string
	// Event is the caller's bookkeeping for the event. When nil the totals are
	// recomputed from the loaded transactions.
	Event  *domain.EventSummary
	Filter TransactionFilter
}

// Snapshot is a complete, consistent view of an event at one point in time.
type Snapshot struct {
	Transactions []domain.Transaction
	Event        *domain.EventSummary
}

// MilestoneUseCase builds milestone reports for an event.
type MilestoneUseCase struct {
	repo   TransactionRepository
	engine *milestone.Engine
	now    func() time.Time
}

// NewMilestoneUseCase creates a new instance of the usecase.
func NewMilestoneUseCase(repo TransactionRepository, engine *milestone.Engine) *MilestoneUseCase {
	return &MilestoneUseCase{repo: repo, engine: engine, now: time.Now}
}

// BuildReport loads the event's transactions and derives its milestones and insights.
func (uc *MilestoneUseCase) BuildReport(ctx context.Context, req ReportRequest) (*domain.Report, error) {
	log := logger.FromContext(ctx)

	if req.Source == "" {
		return nil, ErrNoTransactionSource
	}

	transactions, err := uc.repo.GetTransactions(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("could not get transactions: %w", err)
	}

	recomputed := SummarizeTransactions(transactions)
	event := recomputed
	if req.Event != nil {
		event = *req.Event
		if !event.Balance.Equal(recomputed.Balance) {
			log.Warn().
				Str("given_balance", event.Balance.String()).
				Str("recomputed_balance", recomputed.Balance.String()).
				Msg("event balance does not match its transactions")
		}
	}
	if req.EventName != "" {
		event.Name = req.EventName
	}

	filtered := FilterTransactions(transactions, req.Filter)
	log.Debug().
		Str("source", req.Source).
		Int("loaded", len(transactions)).
		Int("filtered", len(filtered)).
		Msg("transactions loaded")

	report := uc.Compute(Snapshot{Transactions: filtered, Event: &event})

	log.Info().
		Str("event", event.Name).
		Int("milestones", len(report.Milestones)).
		Int("transactions", report.Insights.TotalTransactions).
		Msg("report built")

	return &report, nil
}

// Compute derives a report from a snapshot without touching the repository.
// The report's event is zero-valued when the snapshot carries none.
func (uc *MilestoneUseCase) Compute(s Snapshot) domain.Report {
	report := domain.Report{
		Milestones:  uc.engine.GenerateMilestones(s.Transactions, s.Event),
		Insights:    uc.engine.GetInsights(s.Transactions),
		GeneratedAt: uc.now().UTC(),
	}
	if s.Event != nil {
		report.Event = *s.Event
	}
	return report
}

// Watch recomputes a full report for every snapshot received, in order.
// The returned channel is closed once snapshots is closed or ctx is done.
func (uc *MilestoneUseCase) Watch(ctx context.Context, snapshots <-chan Snapshot) <-chan domain.Report {
	reports := make(chan domain.Report)

	go func() {
		defer close(reports)
		log := logger.FromContext(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-snapshots:
				if !ok {
					return
				}
				report := uc.Compute(s)
				log.Debug().Int("milestones", len(report.Milestones)).Msg("snapshot recomputed")

				select {
				case reports <- report:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return reports
}
