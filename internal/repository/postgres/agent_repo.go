// internal/repository/postgres/agent_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"visatrack-service/internal/domain/agent"
	xerrors "visatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentRepository struct {
	db *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `
	id, company_name, email, contact, contact_person_name,
	contact_person_email, contact_person_phone, cc_emails, status,
	created_at, updated_at`

func scanAgent(row pgx.Row, a *agent.Agent) error {
	return row.Scan(
		&a.ID, &a.CompanyName, &a.Email, &a.Contact, &a.ContactPersonName,
		&a.ContactPersonEmail, &a.ContactPersonPhone, &a.CCEmails, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
}

// Create inserts a new agent.
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	query := `
		INSERT INTO agents (
			company_name, email, contact, contact_person_name,
			contact_person_email, contact_person_phone, cc_emails, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.CompanyName, a.Email, a.Contact, a.ContactPersonName,
		a.ContactPersonEmail, a.ContactPersonPhone, a.CCEmails,
	).Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// FindByID retrieves an agent by ID.
func (r *AgentRepository) FindByID(ctx context.Context, id int64) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1`, agentColumns)

	var a agent.Agent
	err := scanAgent(r.db.QueryRow(ctx, query, id), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find agent: %w", err)
	}
	return &a, nil
}

// List retrieves all agents.
func (r *AgentRepository) List(ctx context.Context) ([]agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents ORDER BY company_name ASC`, agentColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	agents := []agent.Agent{}
	for rows.Next() {
		var a agent.Agent
		if err := scanAgent(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Update writes agent fields; a NULL status keeps the stored value.
func (r *AgentRepository) Update(ctx context.Context, id int64, a *agent.Agent, status *string) error {
	query := `
		UPDATE agents SET
			company_name = $1, email = $2, contact = $3,
			contact_person_name = $4, contact_person_email = $5,
			contact_person_phone = $6, cc_emails = $7,
			status = COALESCE($8, status), updated_at = now()
		WHERE id = $9
	`

	tag, err := r.db.Exec(
		ctx, query,
		a.CompanyName, a.Email, a.Contact,
		a.ContactPersonName, a.ContactPersonEmail,
		a.ContactPersonPhone, a.CCEmails,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Search matches active agents by company, email, contact person or phone.
func (r *AgentRepository) Search(ctx context.Context, q string) ([]agent.Agent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM agents
		WHERE status = 'active'
		  AND (company_name ILIKE $1 OR email ILIKE $1
		       OR contact_person_name ILIKE $1 OR contact ILIKE $1)
		ORDER BY company_name ASC
		LIMIT 10`, agentColumns)

	rows, err := r.db.Query(ctx, query, "%"+q+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search agents: %w", err)
	}
	defer rows.Close()

	agents := []agent.Agent{}
	for rows.Next() {
		var a agent.Agent
		if err := scanAgent(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Deactivate soft-deletes an agent; client and history references survive.
func (r *AgentRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE agents SET status = 'inactive', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
