// internal/repository/postgres/supplier_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"visatrack-service/internal/domain/supplier"
	xerrors "visatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SupplierRepository struct {
	db *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `
	id, company_name, email, contact, contact_person_name,
	contact_person_phone, status, created_at, updated_at`

func scanSupplier(row pgx.Row, s *supplier.Supplier) error {
	return row.Scan(
		&s.ID, &s.CompanyName, &s.Email, &s.Contact, &s.ContactPersonName,
		&s.ContactPersonPhone, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a new supplier.
func (r *SupplierRepository) Create(ctx context.Context, s *supplier.Supplier) error {
	query := `
		INSERT INTO suppliers (
			company_name, email, contact, contact_person_name,
			contact_person_phone, status
		) VALUES ($1, $2, $3, $4, $5, 'active')
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.CompanyName, s.Email, s.Contact, s.ContactPersonName, s.ContactPersonPhone,
	).Scan(&s.ID, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// FindByID retrieves a supplier by ID.
func (r *SupplierRepository) FindByID(ctx context.Context, id int64) (*supplier.Supplier, error) {
	query := fmt.Sprintf(`SELECT %s FROM suppliers WHERE id = $1`, supplierColumns)

	var s supplier.Supplier
	err := scanSupplier(r.db.QueryRow(ctx, query, id), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	return &s, nil
}

// List retrieves all suppliers.
func (r *SupplierRepository) List(ctx context.Context) ([]supplier.Supplier, error) {
	query := fmt.Sprintf(`SELECT %s FROM suppliers ORDER BY company_name ASC`, supplierColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []supplier.Supplier{}
	for rows.Next() {
		var s supplier.Supplier
		if err := scanSupplier(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// Update writes supplier fields; a NULL status keeps the stored value.
func (r *SupplierRepository) Update(ctx context.Context, id int64, s *supplier.Supplier, status *string) error {
	query := `
		UPDATE suppliers SET
			company_name = $1, email = $2, contact = $3,
			contact_person_name = $4, contact_person_phone = $5,
			status = COALESCE($6, status), updated_at = now()
		WHERE id = $7
	`

	tag, err := r.db.Exec(
		ctx, query,
		s.CompanyName, s.Email, s.Contact,
		s.ContactPersonName, s.ContactPersonPhone,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Search matches active suppliers by company, email or contact person.
func (r *SupplierRepository) Search(ctx context.Context, q string) ([]supplier.Supplier, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM suppliers
		WHERE status = 'active'
		  AND (company_name ILIKE $1 OR email ILIKE $1 OR contact_person_name ILIKE $1)
		ORDER BY company_name ASC
		LIMIT 10`, supplierColumns)

	rows, err := r.db.Query(ctx, query, "%"+q+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []supplier.Supplier{}
	for rows.Next() {
		var s supplier.Supplier
		if err := scanSupplier(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// Deactivate soft-deletes a supplier.
func (r *SupplierRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE suppliers SET status = 'inactive', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ReassignClientsTx moves every client of one supplier to another and deletes
// the old supplier, in a single transaction.
func (r *SupplierRepository) ReassignClientsTx(ctx context.Context, tx pgx.Tx, oldID, newID int64) error {
	if _, err := tx.Exec(ctx, `UPDATE clients SET supplier_id = $1 WHERE supplier_id = $2`, newID, oldID); err != nil {
		return fmt.Errorf("failed to reassign clients: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, oldID); err != nil {
		return fmt.Errorf("failed to delete old supplier: %w", err)
	}
	return nil
}
