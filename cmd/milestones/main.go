package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"event-milestones/internal/config"
	"event-milestones/internal/domain"
	"event-milestones/internal/gateway"
	"event-milestones/internal/logger"
	"event-milestones/internal/milestone"
	"event-milestones/internal/usecase"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Define command-line flags
	transactionsFile := flag.String("transactions", "", "Path to the event transactions CSV file (required)")
	eventName := flag.String("event", "", "Event name shown in the report")
	balanceStr := flag.String("balance", "", "Event balance as kept by the caller; recomputed from transactions when empty")
	typeStr := flag.String("type", "all", "Transaction type to include: all, income or expense")
	minStr := flag.String("min", "", "Minimum transaction amount")
	maxStr := flag.String("max", "", "Maximum transaction amount")
	search := flag.String("search", "", "Only include transactions whose title contains this text")
	startDateStr := flag.String("start", "", "Start date (YYYY-MM-DD)")
	endDateStr := flag.String("end", "", "End date (YYYY-MM-DD), inclusive")
	timezone := flag.String("timezone", cfg.Engine.Timezone, "IANA timezone used to group transactions by day")
	logLevel := flag.String("log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	flag.Parse()

	log := logger.New(*logLevel)

	// Validate required flags
	if *transactionsFile == "" {
		fmt.Println("Error: the -transactions flag is required.")
		flag.Usage()
		os.Exit(1)
	}

	req := usecase.ReportRequest{
		Source:    *transactionsFile,
		EventName: *eventName,
	}

	if *balanceStr != "" {
		balance, err := decimal.NewFromString(*balanceStr)
		if err != nil {
			log.Fatal().Err(err).Msg("Error parsing balance")
		}
		req.Event = &domain.EventSummary{Balance: balance}
	}

	loc, err := config.EngineConfig{Timezone: *timezone}.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid timezone")
	}

	req.Filter, err = buildFilter(loc, *typeStr, *minStr, *maxStr, *search, *startDateStr, *endDateStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	// --- Dependency Injection (Wiring the application) ---
	csvRepo := gateway.NewCSVTransactionRepository(loc)
	engine := milestone.New(milestone.WithLocation(loc))
	milestoneUseCase := usecase.NewMilestoneUseCase(csvRepo, engine)

	// --- Execute the Usecase ---
	ctx := logger.WithContext(context.Background(), log)
	report, err := milestoneUseCase.BuildReport(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Building report failed")
	}

	// --- Present the Output ---
	var output []byte
	if cfg.Output.Indent {
		output, err = json.MarshalIndent(report, "", "  ")
	} else {
		output, err = json.Marshal(report)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate JSON report")
	}

	fmt.Println(string(output))
}

// buildFilter reads the date bounds as whole days in loc.
func buildFilter(loc *time.Location, typeStr, minStr, maxStr, search, startStr, endStr string) (usecase.TransactionFilter, error) {
	f := usecase.TransactionFilter{SearchTerm: search}

	switch t := strings.ToLower(typeStr); t {
	case "", string(usecase.FilterAllTypes):
	default:
		f.Type = domain.TransactionType(t)
		if !f.Type.IsValid() {
			return f, fmt.Errorf("unknown transaction type %q", typeStr)
		}
	}

	var err error
	if f.MinAmount, err = parseOptionalAmount(minStr); err != nil {
		return f, fmt.Errorf("min amount: %w", err)
	}
	if f.MaxAmount, err = parseOptionalAmount(maxStr); err != nil {
		return f, fmt.Errorf("max amount: %w", err)
	}

	if startStr != "" {
		if f.StartDate, err = time.ParseInLocation(time.DateOnly, startStr, loc); err != nil {
			return f, fmt.Errorf("start date: %w", err)
		}
	}
	if endStr != "" {
		end, err := time.ParseInLocation(time.DateOnly, endStr, loc)
		if err != nil {
			return f, fmt.Errorf("end date: %w", err)
		}
		f.EndDate = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return f, nil
}

func parseOptionalAmount(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
