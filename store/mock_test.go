package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewWithDB(db)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s, mock
}

func TestNewWithDB_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("disk I/O error"))

	_, err = NewWithDB(db)
	assert.ErrorContains(t, err, "failed to create schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveWritesVersionedRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO slots")).
		WithArgs(KeyArticles, SchemaVersion, `[{"id":"1","name":"n"}]`, int64(1700000000)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Save(context.Background(), KeyArticles, []record{{ID: "1", Name: "n"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO slots")).
		WillReturnError(errors.New("database is locked"))

	err := s.Save(context.Background(), KeyRatings, []record{})
	assert.ErrorContains(t, err, "failed to write slot article_ratings")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveUnencodable(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.Save(context.Background(), KeyRatings, make(chan int))
	assert.ErrorContains(t, err, "failed to encode slot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, payload FROM slots")).
		WithArgs(KeyFavorites).
		WillReturnError(errors.New("connection reset"))

	var got []record
	found, err := s.Load(context.Background(), KeyFavorites, &got)
	assert.False(t, found)
	assert.ErrorContains(t, err, "failed to read slot")
	assert.NoError(t, mock.ExpectationsWereMet())
}
