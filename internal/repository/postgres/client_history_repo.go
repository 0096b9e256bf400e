// internal/repository/postgres/client_history_repo.go
package postgres

import (
	"context"
	"fmt"

	"visatrack-service/internal/domain/client"
	xerrors "visatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientHistoryRepository struct {
	db *pgxpool.Pool
}

func NewClientHistoryRepository(db *pgxpool.Pool) *ClientHistoryRepository {
	return &ClientHistoryRepository{db: db}
}

// List retrieves archived records joined with agent company, newest first.
func (r *ClientHistoryRepository) List(ctx context.Context) ([]client.History, error) {
	query := `
		SELECT ch.id, ch.original_client_id, ch.first_name, ch.last_name,
		       ch.image, ch.uid, ch.passport_no, ch.email, ch.visa_approved_at,
		       ch.migrated_at, ch.initial_period, ch.visa_period,
		       ch.current_expiry, ch.extend_for, ch.visa_source, ch.visa_type,
		       ch.agent_id, ch.supplier_id, a.company_name, ch.moved_at, ch.status
		FROM client_history ch
		LEFT JOIN agents a ON ch.agent_id = a.id
		ORDER BY ch.moved_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list client history: %w", err)
	}
	defer rows.Close()

	histories := []client.History{}
	for rows.Next() {
		var h client.History
		err := rows.Scan(
			&h.ID, &h.OriginalClientID, &h.FirstName, &h.LastName,
			&h.Image, &h.UID, &h.PassportNo, &h.Email, &h.VisaApprovedAt,
			&h.MigratedAt, &h.InitialPeriod, &h.VisaPeriod,
			&h.CurrentExpiry, &h.ExtendFor, &h.VisaSource, &h.VisaType,
			&h.AgentID, &h.SupplierID, &h.AgentCompany, &h.MovedAt, &h.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		histories = append(histories, h)
	}
	return histories, rows.Err()
}

// UpdateStatus sets the status of one history row.
func (r *ClientHistoryRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !client.ValidHistoryStatus(status) {
		return xerrors.ErrInvalidStatus
	}

	tag, err := r.db.Exec(ctx, `UPDATE client_history SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update history status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes one history row.
func (r *ClientHistoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM client_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// HasClientColumn probes information_schema for an optional column on the
// clients table, inside the caller's transaction. Older deployments lack the
// migrated_at audit column; the archival insert substitutes NULL for it.
func (r *ClientHistoryRepository) HasClientColumn(ctx context.Context, tx pgx.Tx, column string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = 'clients'
		  AND column_name = $1
	`

	var count int
	if err := tx.QueryRow(ctx, query, column).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to probe column %s: %w", column, err)
	}
	return count > 0, nil
}

// ArchiveExpiredTx copies every client whose current_expiry is strictly
// before today into client_history and returns the number of rows inserted.
// Must run inside the same transaction as DeleteExpiredTx.
func (r *ClientHistoryRepository) ArchiveExpiredTx(ctx context.Context, tx pgx.Tx, hasMigratedAt bool) (int64, error) {
	migratedSelect := "NULL"
	if hasMigratedAt {
		migratedSelect = "migrated_at"
	}

	query := fmt.Sprintf(`
		INSERT INTO client_history (
			original_client_id, first_name, last_name, image, uid, passport_no,
			email, visa_approved_at, migrated_at, initial_period, visa_period,
			current_expiry, extend_for, visa_source, visa_type, agent_id,
			supplier_id, moved_at, status
		)
		SELECT id, first_name, last_name, image, uid, passport_no,
		       email, visa_approved_at, %s, initial_period, visa_period,
		       current_expiry, extend_for, visa_source, visa_type, agent_id,
		       supplier_id, now(), 'archived'
		FROM clients
		WHERE current_expiry IS NOT NULL AND current_expiry < CURRENT_DATE
	`, migratedSelect)

	tag, err := tx.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to archive expired clients: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredTx removes the archived rows from the active table and returns
// the number deleted.
func (r *ClientHistoryRepository) DeleteExpiredTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	tag, err := tx.Exec(ctx, `
		DELETE FROM clients
		WHERE current_expiry IS NOT NULL AND current_expiry < CURRENT_DATE
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired clients: %w", err)
	}
	return tag.RowsAffected(), nil
}
