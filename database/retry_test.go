package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
		EnableRetry:  true,
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no rows", sql.ErrNoRows, false},
		{"wrapped no rows", fmt.Errorf("lookup: %w", sql.ErrNoRows), false},
		{"deadline", context.DeadlineExceeded, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"undefined column", &pgconn.PgError{Code: "42703"}, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"connection reset message", errors.New("read tcp: connection reset by peer"), true},
		{"unexpected eof message", errors.New("unexpected EOF"), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestSQLState(t *testing.T) {
	assert.Equal(t, "23505", SQLState(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.Empty(t, SQLState(errors.New("not a pg error")))
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastRetry(3), func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := &pgconn.PgError{Code: "23505"}
	err := RetryWithBackoff(context.Background(), fastRetry(5), func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastRetry(2), func() error {
		calls++
		return errors.New("broken pipe")
	})

	assert.EqualError(t, err, "broken pipe")
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_Disabled(t *testing.T) {
	cfg := fastRetry(5)
	cfg.EnableRetry = false

	calls := 0
	_ = RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return errors.New("connection refused")
	})
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry(3)
	cfg.InitialDelay = time.Second

	err := RetryWithBackoff(ctx, cfg, func() error {
		return errors.New("connection refused")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWhereClauseCondition(t *testing.T) {
	cond, args := (&whereClause{column: "price", operator: ">=", value: 10}).condition()
	assert.Equal(t, `"price" >= ?`, cond)
	assert.Equal(t, []any{10}, args)

	cond, args = (&whereClause{column: "p.category", operator: "IS NULL"}).condition()
	assert.Equal(t, "p.category IS NULL", cond)
	assert.Nil(t, args)

	cond, args = (&whereClause{raw: "name ILIKE ?", args: []any{"%oak%"}}).condition()
	assert.Equal(t, "name ILIKE ?", cond)
	assert.Equal(t, []any{"%oak%"}, args)
}

func TestWhereInEmptyMatchesNothing(t *testing.T) {
	q := &QueryBuilder[struct{}]{}
	q.WhereIn("id", nil)
	require.Len(t, q.wheres, 1)
	cond, _ := q.wheres[0].condition()
	assert.Equal(t, "FALSE", cond)

	q2 := &QueryBuilder[struct{}]{}
	q2.WhereNotIn("id", nil)
	assert.Empty(t, q2.wheres)
}
