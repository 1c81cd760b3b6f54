package sqladmin

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/sqlweb/internal/infrastructure/database"
)

// mockStore returns a Store whose single handle is a sqlmock database.
// Statements are matched verbatim.
func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	s := NewStoreWithOpener("mock.db", func(context.Context) (*database.DB, error) {
		return &database.DB{DB: db}, nil
	})
	return s, mock
}

func TestStoreMock_ListTablesCountFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery(listTablesSQL).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("people"))
	mock.ExpectQuery(countRowsSQL("people")).WillReturnError(assert.AnError)
	mock.ExpectClose()

	tables, err := s.ListTables(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, tables)
	assert.False(t, IsClientError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMock_ExecuteQueryWritePath(t *testing.T) {
	s, mock := mockStore(t)
	stmt := "UPDATE people SET name = 'x'"

	mock.ExpectQuery(stmt).WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectClose()

	res, err := s.ExecuteQuery(context.Background(), stmt+";")
	require.NoError(t, err)
	require.True(t, res.IsWrite())
	assert.Equal(t, int64(3), *res.RowsAffected)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMock_ExecuteQueryEngineError(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT * FROM people").WillReturnError(assert.AnError)
	mock.ExpectClose()

	_, err := s.ExecuteQuery(context.Background(), "SELECT * FROM people")
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, IsClientError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMock_ExecuteScriptCommitFailure(t *testing.T) {
	s, mock := mockStore(t)
	script := "DELETE FROM a; DELETE FROM b"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_changes()").
		WillReturnRows(sqlmock.NewRows([]string{"total_changes()"}).AddRow(int64(10)))
	mock.ExpectExec(script).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT total_changes()").
		WillReturnRows(sqlmock.NewRows([]string{"total_changes()"}).AddRow(int64(12)))
	mock.ExpectCommit().WillReturnError(assert.AnError)
	mock.ExpectClose()

	res, err := s.ExecuteScript(context.Background(), script)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "committing script")
	assert.Nil(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMock_ExecuteScriptStatementFailureRollsBack(t *testing.T) {
	s, mock := mockStore(t)
	script := "INSERT INTO a VALUES (1)"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_changes()").
		WillReturnRows(sqlmock.NewRows([]string{"total_changes()"}).AddRow(int64(0)))
	mock.ExpectExec(script).WillReturnError(assert.AnError)
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := s.ExecuteScript(context.Background(), script)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMock_InsertRowBindsParameters(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec(`INSERT INTO "t" ("id", "name") VALUES (?, ?)`).
		WithArgs(int64(1), "a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectClose()

	n, err := s.InsertRow(context.Background(), "t", map[string]any{"name": "a", "id": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreMock_CloseFailureIsNotReturned(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectClose().WillReturnError(assert.AnError)

	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
