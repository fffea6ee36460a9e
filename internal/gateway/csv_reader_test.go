package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"event-milestones/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVTransactionRepository_GetTransactions(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []domain.Transaction
		wantErr  error
	}{
		{
			name: "valid transactions",
			lines: []string{
				"id,title,type,amount,date,note",
				"T1,Ticket sales,income,2000000,2025-09-01T10:00:00Z,door",
				"T2,Venue deposit,expense,500000.50,2025-09-01,",
				"T3,Sponsor,INCOME,4000000,2025-09-02T09:00:00+07:00,",
			},
			expected: []domain.Transaction{
				{
					ID:     "T1",
					Title:  "Ticket sales",
					Type:   domain.TransactionTypeIncome,
					Amount: decimal.RequireFromString("2000000"),
					Date:   mustParseTime("2025-09-01T10:00:00Z"),
					Note:   "door",
				},
				{
					ID:     "T2",
					Title:  "Venue deposit",
					Type:   domain.TransactionTypeExpense,
					Amount: decimal.RequireFromString("500000.50"),
					Date:   mustParseDate("2025-09-01"),
				},
				{
					ID:     "T3",
					Title:  "Sponsor",
					Type:   domain.TransactionTypeIncome,
					Amount: decimal.RequireFromString("4000000"),
					Date:   mustParseTime("2025-09-02T09:00:00+07:00"),
				},
			},
		},
		{
			name: "columns in any order without optional ones",
			lines: []string{
				"date, amount ,Title,TYPE",
				"2025-09-03,75,Snacks,expense",
			},
			expected: []domain.Transaction{
				{
					ID:     "generated-1",
					Title:  "Snacks",
					Type:   domain.TransactionTypeExpense,
					Amount: decimal.RequireFromString("75"),
					Date:   mustParseDate("2025-09-03"),
				},
			},
		},
		{
			name:     "header only",
			lines:    []string{"id,title,type,amount,date,note"},
			expected: nil,
		},
		{
			name: "missing title",
			lines: []string{
				"id,title,type,amount,date",
				"T1,,income,10,2025-09-01",
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "unknown type",
			lines: []string{
				"id,title,type,amount,date",
				"T1,Refund,transfer,10,2025-09-01",
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "invalid amount format",
			lines: []string{
				"id,title,type,amount,date",
				"T1,Refund,income,ten,2025-09-01",
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "negative amount",
			lines: []string{
				"id,title,type,amount,date",
				"T1,Refund,income,-10,2025-09-01",
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "invalid date format",
			lines: []string{
				"id,title,type,amount,date",
				"T1,Refund,income,10,01/09/2025",
			},
			wantErr: ErrInvalidRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTempCSV(t, tt.lines)
			repo := newTestRepository()

			got, err := repo.GetTransactions(context.Background(), path)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i, want := range tt.expected {
				assert.True(t, compareTransactions(got[i], want), "transaction[%d] = %+v, want %+v", i, got[i], want)
			}
		})
	}
}

func TestCSVTransactionRepository_GetTransactions_FileErrors(t *testing.T) {
	repo := NewCSVTransactionRepository(nil)
	ctx := context.Background()

	t.Run("file not found", func(t *testing.T) {
		_, err := repo.GetTransactions(ctx, "nonexistent_file.csv")
		assert.Error(t, err)
	})

	t.Run("file with no header", func(t *testing.T) {
		path := createTempCSV(t, nil)
		_, err := repo.GetTransactions(ctx, path)
		assert.Error(t, err)
	})

	t.Run("header missing required column", func(t *testing.T) {
		path := createTempCSV(t, []string{"id,title,amount,date"})
		_, err := repo.GetTransactions(ctx, path)
		assert.ErrorContains(t, err, `missing column "type"`)
	})
}

func TestCSVTransactionRepository_DateOnlyUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	content := "title,type,amount,date\nTicket,income,5,2025-03-01\nLate fee,expense,1,2025-03-01T23:30:00Z\n"

	got, err := NewCSVTransactionRepository(loc).ParseTransactions(context.Background(), strings.NewReader(content))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc).Equal(got[0].Date), "date %s", got[0].Date)
	assert.Equal(t, "2025-03-01", got[0].Date.In(loc).Format(time.DateOnly))
	assert.True(t, got[1].Date.Equal(mustParseTime("2025-03-01T23:30:00Z")))
}

func TestCSVTransactionRepository_GeneratesMissingIDs(t *testing.T) {
	repo := NewCSVTransactionRepository(nil)
	content := "title,type,amount,date\nA,income,1,2025-01-01\nB,income,1,2025-01-01\n"

	got, err := repo.ParseTransactions(context.Background(), strings.NewReader(content))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestCSVTransactionRepository_ParseTransactions_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVTransactionRepository(nil).ParseTransactions(ctx, strings.NewReader("title,type,amount,date\nA,income,1,2025-01-01\n"))

	assert.True(t, errors.Is(err, context.Canceled))
}

// Helpers

func newTestRepository() *CSVTransactionRepository {
	n := 0
	return &CSVTransactionRepository{loc: time.UTC, newID: func() string {
		n++
		return "generated-" + strconv.Itoa(n)
	}}
}

func createTempCSV(t testing.TB, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}

func mustParseTime(timeStr string) time.Time {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		panic(err)
	}
	return t
}

func mustParseDate(dateStr string) time.Time {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

func compareTransactions(got, want domain.Transaction) bool {
	return got.ID == want.ID &&
		got.Title == want.Title &&
		got.Type == want.Type &&
		got.Amount.Equal(want.Amount) &&
		got.Date.Equal(want.Date) &&
		got.Note == want.Note
}

// Benchmark tests

func BenchmarkGetTransactions(b *testing.B) {
	lines := []string{"id,title,type,amount,date,note"}
	for i := 0; i < 1000; i++ {
		lines = append(lines, "T"+strconv.Itoa(i)+",Ticket,income,150.00,2025-09-01T10:00:00Z,")
	}
	path := createTempCSV(b, lines)

	repo := NewCSVTransactionRepository(nil)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.GetTransactions(ctx, path); err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}
