package bookinstance

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueries_NoFilters(t *testing.T) {
	q, err := buildListQueries(Query{Limit: 20})
	require.NoError(t, err)

	assert.NotContains(t, q.countSQL, "WHERE")
	assert.Empty(t, q.countArgs)
	assert.Contains(t, q.dataSQL, "NULLS LAST")
	assert.Contains(t, q.dataSQL, "LEFT JOIN")
}

func TestBuildListQueries_Filters(t *testing.T) {
	status := StatusOnLoan
	bookID := int64(7)
	asOf := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	q, err := buildListQueries(Query{
		Status:      &status,
		BookID:      &bookID,
		BorrowerID:  "9f1c3b8e-4d2a-4c55-8a7e-1b2c3d4e5f60",
		OverdueAsOf: &asOf,
		Limit:       10,
	})
	require.NoError(t, err)

	require.Len(t, q.countArgs, 4)
	assert.Equal(t, "on_loan", q.countArgs[0])
	assert.Equal(t, int64(7), q.countArgs[1])
	assert.Equal(t, asOf, q.countArgs[3])
	assert.Contains(t, q.countSQL, `"i"."due_back" < $4`)
	assert.Equal(t, q.countArgs, q.dataArgs[:4])
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503", ConstraintName: constraintInstanceBook}), ErrUnknownBook)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503", ConstraintName: constraintInstanceLanguage}), ErrUnknownLanguage)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503", ConstraintName: constraintInstanceBorrower}), ErrUnknownBorrower)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestLoanWrites_GuardStatus(t *testing.T) {
	tests := []struct {
		name  string
		query string
		guard string
	}{
		{"update", updateSQL, "status <> 'on_loan'"},
		{"renew", setDueBackSQL, "status = 'on_loan'"},
		{"lend", lendSQL, "status = 'available'"},
		{"return", returnSQL, "status = 'on_loan'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.query, "WHERE id = $1 AND "+tt.guard)
		})
	}
}
