// internal/service/expiry/archiver.go
package expiry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"visatrack-service/internal/domain/client"
)

// TxBeginner opens a transaction; satisfied by *postgres.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// HistoryStore is the archival surface: schema probe plus the two
// transactional statements that move expired rows to history.
type HistoryStore interface {
	HasClientColumn(ctx context.Context, tx pgx.Tx, column string) (bool, error)
	ArchiveExpiredTx(ctx context.Context, tx pgx.Tx, hasMigratedAt bool) (int64, error)
	DeleteExpiredTx(ctx context.Context, tx pgx.Tx) (int64, error)
}

// Archiver moves clients whose visa expired before today into the history
// table. Copy and delete run in one transaction so a client is never in both
// tables or neither.
type Archiver struct {
	db      TxBeginner
	history HistoryStore
	logger  *zap.Logger
}

func NewArchiver(db TxBeginner, history HistoryStore, logger *zap.Logger) *Archiver {
	return &Archiver{db: db, history: history, logger: logger}
}

// Archive snapshots every expired client into history and removes it from the
// active table. Returns the matched counts; if they ever disagree the whole
// transaction rolls back.
func (a *Archiver) Archive(ctx context.Context) (*client.ArchiveResult, error) {
	tx, err := a.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Older deployments carry a migrated_at column on clients; history rows
	// keep it when present.
	hasMigratedAt, err := a.history.HasClientColumn(ctx, tx, "migrated_at")
	if err != nil {
		return nil, fmt.Errorf("probe migrated_at column: %w", err)
	}

	inserted, err := a.history.ArchiveExpiredTx(ctx, tx, hasMigratedAt)
	if err != nil {
		return nil, fmt.Errorf("copy expired clients: %w", err)
	}

	deleted, err := a.history.DeleteExpiredTx(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("delete expired clients: %w", err)
	}

	if inserted != deleted {
		return nil, fmt.Errorf("archive count mismatch: inserted %d, deleted %d", inserted, deleted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit archive tx: %w", err)
	}

	if inserted > 0 {
		a.logger.Info("archived expired clients", zap.Int64("count", inserted))
	}

	return &client.ArchiveResult{Inserted: inserted, Deleted: deleted}, nil
}
