package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create registration: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
}

func TestWhereClauseNumbersPlaceholders(t *testing.T) {
	var w whereClause
	w.search("Kaigo", "title", "description")
	w.add("category = ?", "care")
	w.addRaw("parent_id IS NULL")

	assert.Equal(t, " WHERE (LOWER(title) LIKE $1 OR LOWER(description) LIKE $1) AND category = $2 AND parent_id IS NULL", w.String())
	assert.Equal(t, []interface{}{"%kaigo%", "care"}, w.args)
}

func TestWhereClauseEmpty(t *testing.T) {
	var w whereClause
	w.search("   ", "title")
	assert.Equal(t, "", w.String())
}
