package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/domain"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "diagrammer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	version, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	kinds, err := s.Kinds()
	require.NoError(t, err)
	assert.Empty(t, kinds)
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var mode string
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	// hold the connections open so the pool hands out distinct ones
	for i := 0; i < 3; i++ {
		conn, err := s.db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		var timeout, sync int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&sync))
		assert.Equal(t, 5000, timeout, "connection %d", i)
		assert.Equal(t, 1, sync, "connection %d", i)
	}
}

func TestSnapshotStore_SaveLoad(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Load(domain.KindERD)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(domain.KindUseCase, []byte(`{"nodes":[]}`)))
	require.NoError(t, s.Save(domain.KindERD, []byte(`{"tables":[]}`)))
	require.NoError(t, s.Save(domain.KindERD, []byte(`{"tables":[],"relations":[]}`)))

	data, ok, err := s.Load(domain.KindERD)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"tables":[],"relations":[]}`, string(data))

	kinds, err := s.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []domain.DiagramKind{domain.KindERD, domain.KindUseCase}, kinds)

	assert.Error(t, s.Save(domain.KindUnknown, []byte("{}")))
}

func TestSnapshotStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagrammer.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(domain.KindFlowchart, []byte(`{"nodes":[],"edges":[]}`)))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err := reopened.Load(domain.KindFlowchart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, reopened.Path())
}

func TestSnapshotStore_LoadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT data FROM snapshots").
		WithArgs("erd").
		WillReturnError(errors.New("disk I/O error"))

	s := NewSnapshotStoreFromDB(db)
	_, ok, err := s.Load(domain.KindERD)

	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to load erd snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_SaveRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT OR REPLACE INTO snapshots").
		WithArgs("flowchart", `{"nodes":[]}`, sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	s := NewSnapshotStoreFromDB(db)
	err = s.Save(domain.KindFlowchart, []byte(`{"nodes":[]}`))

	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_SaveCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT OR REPLACE INTO snapshots").
		WithArgs("usecase", `{}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := NewSnapshotStoreFromDB(db)
	require.NoError(t, s.Save(domain.KindUseCase, []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_KindsSkipsUnknownRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT kind FROM snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"kind"}).
			AddRow("usecase").
			AddRow("legacy").
			AddRow("erd"))

	s := NewSnapshotStoreFromDB(db)
	kinds, err := s.Kinds()

	require.NoError(t, err)
	assert.Equal(t, []domain.DiagramKind{domain.KindERD, domain.KindUseCase}, kinds)
	assert.NoError(t, mock.ExpectationsWereMet())
}
