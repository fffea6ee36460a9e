package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"event-milestones/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidRow is returned when a CSV row cannot be turned into a transaction.
var ErrInvalidRow = errors.New("invalid transaction row")

var requiredColumns = []string{"title", "type", "amount", "date"}

// CSVTransactionRepository implements the TransactionRepository interface for CSV files.
// Files carry a header with the columns id, title, type, amount, date and note;
// id and note are optional.
type CSVTransactionRepository struct {
	loc   *time.Location
	newID func() string
}

// NewCSVTransactionRepository creates a new repository instance. Date-only values
// are read as midnight in loc; a nil loc means UTC.
func NewCSVTransactionRepository(loc *time.Location) *CSVTransactionRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVTransactionRepository{loc: loc, newID: uuid.NewString}
}

// GetTransactions reads and parses an event's transactions CSV file.
func (r *CSVTransactionRepository) GetTransactions(ctx context.Context, path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()

	transactions, err := r.ParseTransactions(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return transactions, nil
}

// ParseTransactions parses CSV content from r. The first row must be the header.
func (r *CSVTransactionRepository) ParseTransactions(ctx context.Context, in io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := parseHeader(header)
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header", name)
		}
	}

	var transactions []domain.Transaction
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", row, err)
		}

		tx, err := r.mapToTransaction(columns, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func parseHeader(row []string) map[string]int {
	columns := make(map[string]int, len(row))
	for i, h := range row {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return columns
}

func (r *CSVTransactionRepository) mapToTransaction(columns map[string]int, record []string) (domain.Transaction, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	title := field("title")
	if title == "" {
		return domain.Transaction{}, fmt.Errorf("%w: missing title", ErrInvalidRow)
	}

	txType := domain.TransactionType(strings.ToLower(field("type")))
	if !txType.IsValid() {
		return domain.Transaction{}, fmt.Errorf("%w: unknown type '%s'", ErrInvalidRow, field("type"))
	}

	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: could not parse amount '%s'", ErrInvalidRow, field("amount"))
	}
	if amount.IsNegative() {
		return domain.Transaction{}, fmt.Errorf("%w: negative amount '%s'", ErrInvalidRow, field("amount"))
	}

	date, err := r.parseDate(field("date"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: could not parse date '%s'", ErrInvalidRow, field("date"))
	}

	id := field("id")
	if id == "" {
		id = r.newID()
	}

	return domain.Transaction{
		ID:     id,
		Title:  title,
		Type:   txType,
		Amount: amount,
		Date:   date,
		Note:   field("note"),
	}, nil
}

// parseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates (midnight in the repository's location).
func (r *CSVTransactionRepository) parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, r.loc)
}
