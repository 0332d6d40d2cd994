package cache

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/session"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.TokenStore().SetToken(context.Background(), "kept"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	tok, err := db.TokenStore().Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", tok)
}

func TestTokenStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t).TokenStore()

	tok, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.SetToken(ctx, "first"))
	require.NoError(t, store.SetToken(ctx, "second"))
	tok, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)

	require.NoError(t, store.DeleteToken(ctx))
	require.NoError(t, store.DeleteToken(ctx))
	tok, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestCourses_PutAndGet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	courses, fresh, err := db.GetCourses(ctx, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, courses)
	assert.False(t, fresh)

	in := []api.Course{
		{ID: 2, Title: "Templates", Level: api.LevelAdvanced, Price: 49},
		{ID: 1, Title: "C++ Basics", Level: api.LevelBeginner},
	}
	require.NoError(t, db.PutCourses(ctx, in))

	courses, fresh, err = db.GetCourses(ctx, time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
	require.Len(t, courses, 2)
	assert.Equal(t, "C++ Basics", courses[0].Title)
	assert.Equal(t, "Templates", courses[1].Title)

	_, fresh, err = db.GetCourses(ctx, 0)
	require.NoError(t, err)
	assert.False(t, fresh)

	c, fresh, err := db.GetCourse(ctx, 2, time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
	require.NotNil(t, c)
	assert.InDelta(t, 49, c.Price, 0.001)

	c, _, err = db.GetCourse(ctx, 99, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestPutCourses_ReplacesCatalog(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.PutCourses(ctx, []api.Course{{ID: 1}, {ID: 2}}))
	require.NoError(t, db.PutCourses(ctx, []api.Course{{ID: 3, Title: "STL"}}))

	courses, _, err := db.GetCourses(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(3), courses[0].ID)
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	for _, m := range migrations {
		mock.ExpectExec(regexp.QuoteMeta(m)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	db, err := New(conn)
	require.NoError(t, err)
	return db, mock
}

func TestNew_MigrationFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(regexp.QuoteMeta(migrations[0])).WillReturnError(errors.New("disk I/O error"))

	_, err = New(conn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrating database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("database is locked")

	t.Run("read", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM session WHERE key = ?`)).
			WithArgs(session.TokenKey).
			WillReturnError(boom)

		_, err := db.TokenStore().Token(ctx)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("write", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`)).
			WithArgs(session.TokenKey, "tok").
			WillReturnError(boom)

		err := db.TokenStore().SetToken(ctx, "tok")
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session WHERE key = ?`)).
			WithArgs(session.TokenKey).
			WillReturnError(boom)

		err := db.TokenStore().DeleteToken(ctx)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPutCourses_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM courses`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO courses`)).WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := db.PutCourses(ctx, []api.Course{{ID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing course 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCourses_CorruptPayload(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload, fetched_at FROM courses ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at"}).AddRow("{not json", time.Now().Unix()))

	_, _, err := db.GetCourses(context.Background(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding cached course")
}
