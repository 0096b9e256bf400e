package expiry

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTx records commit/rollback; the embedded interface panics on anything
// the archiver should never touch.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeDB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

type fakeHistoryStore struct {
	hasMigratedAt bool
	inserted      int64
	deleted       int64

	probeErr   error
	archiveErr error
	deleteErr  error

	probedColumn  string
	sawMigratedAt bool
	archiveCalled bool
	deleteCalled  bool
}

func (f *fakeHistoryStore) HasClientColumn(ctx context.Context, tx pgx.Tx, column string) (bool, error) {
	f.probedColumn = column
	return f.hasMigratedAt, f.probeErr
}

func (f *fakeHistoryStore) ArchiveExpiredTx(ctx context.Context, tx pgx.Tx, hasMigratedAt bool) (int64, error) {
	f.archiveCalled = true
	f.sawMigratedAt = hasMigratedAt
	return f.inserted, f.archiveErr
}

func (f *fakeHistoryStore) DeleteExpiredTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	f.deleteCalled = true
	return f.deleted, f.deleteErr
}

func TestArchiveCommitsMatchingCounts(t *testing.T) {
	tx := &fakeTx{}
	store := &fakeHistoryStore{hasMigratedAt: true, inserted: 3, deleted: 3}
	a := NewArchiver(&fakeDB{tx: tx}, store, zap.NewNop())

	result, err := a.Archive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Inserted)
	assert.Equal(t, int64(3), result.Deleted)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Equal(t, "migrated_at", store.probedColumn)
	assert.True(t, store.sawMigratedAt)
}

func TestArchiveNothingToMove(t *testing.T) {
	tx := &fakeTx{}
	a := NewArchiver(&fakeDB{tx: tx}, &fakeHistoryStore{}, zap.NewNop())

	result, err := a.Archive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Inserted)
	assert.Equal(t, int64(0), result.Deleted)
	assert.True(t, tx.committed)
}

func TestArchiveRollsBackOnCountMismatch(t *testing.T) {
	tx := &fakeTx{}
	a := NewArchiver(&fakeDB{tx: tx}, &fakeHistoryStore{inserted: 3, deleted: 2}, zap.NewNop())

	_, err := a.Archive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count mismatch")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestArchiveRollsBackOnCopyFailure(t *testing.T) {
	tx := &fakeTx{}
	store := &fakeHistoryStore{archiveErr: errors.New("history table missing")}
	a := NewArchiver(&fakeDB{tx: tx}, store, zap.NewNop())

	_, err := a.Archive(context.Background())
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
	assert.False(t, store.deleteCalled)
}

func TestArchiveRollsBackOnDeleteFailure(t *testing.T) {
	tx := &fakeTx{}
	store := &fakeHistoryStore{inserted: 2, deleteErr: errors.New("fk violation")}
	a := NewArchiver(&fakeDB{tx: tx}, store, zap.NewNop())

	_, err := a.Archive(context.Background())
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestArchiveBeginFailure(t *testing.T) {
	store := &fakeHistoryStore{}
	a := NewArchiver(&fakeDB{beginErr: errors.New("pool exhausted")}, store, zap.NewNop())

	_, err := a.Archive(context.Background())
	require.Error(t, err)
	assert.False(t, store.archiveCalled)
}
