package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/waste3d/course-marketplace/config"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := b.Read(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Write(ctx, "courses", []byte(`[{"id":"c1"}]`)))
	require.NoError(t, b.Write(ctx, "courses", []byte(`[{"id":"c2"}]`)))

	data, ok, err := b.Read(ctx, "courses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"c2"}]`, string(data))
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestFileBackend_OsFs(t *testing.T) {
	b, err := NewFileBackend(afero.NewOsFs(), filepath.Join(t.TempDir(), "ledger"))
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestSQLiteBackend(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer db.Close()

	b, err := NewSQLiteBackend(db)
	require.NoError(t, err)
	exerciseBackend(t, b)
}

type fakeRedis struct {
	values map[string]string
	err    error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func TestRedisBackend(t *testing.T) {
	client := &fakeRedis{values: map[string]string{}}
	b := NewRedisBackend(client, "mk:")
	exerciseBackend(t, b)
	assert.Contains(t, client.values, "mk:courses")
}

func TestRedisBackend_Error(t *testing.T) {
	b := NewRedisBackend(&fakeRedis{values: map[string]string{}, err: errors.New("connection refused")}, "")
	_, _, err := b.Read(context.Background(), "sales")
	assert.Error(t, err)
	assert.Error(t, b.Write(context.Background(), "sales", []byte("[]")))
}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestPostgresBackend_Read(t *testing.T) {
	db, mock := newMockGorm(t)
	b := NewPostgresBackend(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ledger_blobs" WHERE blob_key = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"blob_key", "value", "updated_at"}).
			AddRow("sales", `[{"id":"s1"}]`, time.Now()))

	data, ok, err := b.Read(context.Background(), "sales")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"s1"}]`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_ReadMissing(t *testing.T) {
	db, mock := newMockGorm(t)
	b := NewPostgresBackend(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ledger_blobs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"blob_key", "value", "updated_at"}))

	_, ok, err := b.Read(context.Background(), "coupons")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_Write(t *testing.T) {
	db, mock := newMockGorm(t)
	b := NewPostgresBackend(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "ledger_blobs"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Write(context.Background(), "sales", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_MemoryAndUnknown(t *testing.T) {
	b, closer, err := Open(context.Background(), config.Config{StorageDriver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, closer())
	exerciseBackend(t, b)

	_, _, err = Open(context.Background(), config.Config{StorageDriver: "etcd"}, zap.NewNop())
	assert.Error(t, err)
}

func TestOpen_NilLogger(t *testing.T) {
	b, closer, err := Open(context.Background(), config.Config{StorageDriver: "file", DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	require.NoError(t, closer())
	exerciseBackend(t, b)
}
