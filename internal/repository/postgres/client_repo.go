// internal/repository/postgres/client_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"visatrack-service/internal/domain/client"
	xerrors "visatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `
	c.id, c.first_name, c.last_name, c.image, c.uid, c.passport_no, c.email,
	c.visa_approved_at, c.initial_period, c.visa_period, c.initial_expiry,
	c.current_expiry, c.extend_for, c.visa_source, c.visa_type,
	c.absconding_type, c.agent_id, c.supplier_id, c.comment,
	c.created_at, c.updated_at`

func scanClient(row pgx.Row, c *client.Client) error {
	return row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Image, &c.UID, &c.PassportNo, &c.Email,
		&c.VisaApprovedAt, &c.InitialPeriod, &c.VisaPeriod, &c.InitialExpiry,
		&c.CurrentExpiry, &c.ExtendFor, &c.VisaSource, &c.VisaType,
		&c.AbscondingType, &c.AgentID, &c.SupplierID, &c.Comment,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

// Create inserts a new client record.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			first_name, last_name, image, uid, passport_no, email,
			visa_approved_at, initial_period, visa_period, initial_expiry,
			current_expiry, extend_for, visa_source, visa_type,
			absconding_type, agent_id, supplier_id, comment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.FirstName, c.LastName, c.Image, c.UID, c.PassportNo, c.Email,
		c.VisaApprovedAt, c.InitialPeriod, c.VisaPeriod, c.InitialExpiry,
		c.CurrentExpiry, c.ExtendFor, c.VisaSource, c.VisaType,
		c.AbscondingType, c.AgentID, c.SupplierID, c.Comment,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// FindByID retrieves a client by ID.
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients c WHERE c.id = $1`, clientColumns)

	var c client.Client
	err := scanClient(r.db.QueryRow(ctx, query, id), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &c, nil
}

// FindByUID retrieves a client by its national identity number.
func (r *ClientRepository) FindByUID(ctx context.Context, uid string) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients c WHERE c.uid = $1`, clientColumns)

	var c client.Client
	err := scanClient(r.db.QueryRow(ctx, query, uid), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client by uid: %w", err)
	}
	return &c, nil
}

// List retrieves all clients joined with agent and supplier company names,
// optionally filtered to visas expiring within the next two months.
func (r *ClientRepository) List(ctx context.Context, filters *client.ClientListFilters) ([]client.Client, error) {
	query := fmt.Sprintf(`
		SELECT %s, a.company_name AS agent_company, s.company_name AS supplier_company
		FROM clients c
		LEFT JOIN agents a ON c.agent_id = a.id
		LEFT JOIN suppliers s ON c.supplier_id = s.id`, clientColumns)

	if filters != nil && filters.FilterExpiry {
		query += `
		WHERE c.current_expiry IS NOT NULL
		  AND c.current_expiry BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '2 months'`
	}

	sortBy := ""
	if filters != nil {
		sortBy = filters.SortBy
	}
	switch sortBy {
	case "expiry":
		query += ` ORDER BY c.current_expiry ASC`
	case "agent":
		query += ` ORDER BY a.company_name ASC`
	case "supplier":
		query += ` ORDER BY s.company_name ASC`
	case "uid":
		query += ` ORDER BY c.uid ASC`
	default:
		query += ` ORDER BY c.id DESC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	return scanClientsWithCompanies(rows)
}

// ListByAgent retrieves clients assigned to one agent.
func (r *ClientRepository) ListByAgent(ctx context.Context, agentID int64) ([]client.Client, error) {
	query := fmt.Sprintf(`
		SELECT %s, a.company_name AS agent_company, s.company_name AS supplier_company
		FROM clients c
		LEFT JOIN agents a ON c.agent_id = a.id
		LEFT JOIN suppliers s ON c.supplier_id = s.id
		WHERE c.agent_id = $1
		ORDER BY c.current_expiry ASC NULLS LAST`, clientColumns)

	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients by agent: %w", err)
	}
	defer rows.Close()

	return scanClientsWithCompanies(rows)
}

func scanClientsWithCompanies(rows pgx.Rows) ([]client.Client, error) {
	clients := []client.Client{}
	for rows.Next() {
		var c client.Client
		err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Image, &c.UID, &c.PassportNo, &c.Email,
			&c.VisaApprovedAt, &c.InitialPeriod, &c.VisaPeriod, &c.InitialExpiry,
			&c.CurrentExpiry, &c.ExtendFor, &c.VisaSource, &c.VisaType,
			&c.AbscondingType, &c.AgentID, &c.SupplierID, &c.Comment,
			&c.CreatedAt, &c.UpdatedAt,
			&c.AgentCompany, &c.SupplierCompany,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update writes every mutable field of a client record.
func (r *ClientRepository) Update(ctx context.Context, id int64, c *client.Client) error {
	query := `
		UPDATE clients SET
			first_name = $1, last_name = $2, image = $3, uid = $4,
			passport_no = $5, email = $6, visa_approved_at = $7,
			visa_period = $8, current_expiry = $9, extend_for = $10,
			visa_source = $11, visa_type = $12, absconding_type = $13,
			agent_id = $14, supplier_id = $15, comment = $16,
			updated_at = now()
		WHERE id = $17
	`

	tag, err := r.db.Exec(
		ctx, query,
		c.FirstName, c.LastName, c.Image, c.UID,
		c.PassportNo, c.Email, c.VisaApprovedAt,
		c.VisaPeriod, c.CurrentExpiry, c.ExtendFor,
		c.VisaSource, c.VisaType, c.AbscondingType,
		c.AgentID, c.SupplierID, c.Comment,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateExpiryFields writes only the expiry lifecycle fields; used by revert.
func (r *ClientRepository) UpdateExpiryFields(ctx context.Context, id int64, expiry time.Time, extendFor, visaPeriod int) error {
	query := `
		UPDATE clients
		SET current_expiry = $1, extend_for = $2, visa_period = $3, updated_at = now()
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, expiry, extendFor, visaPeriod, id)
	if err != nil {
		return fmt.Errorf("failed to update expiry fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a client record outright.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
