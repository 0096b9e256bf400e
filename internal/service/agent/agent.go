// internal/service/agent/agent.go
package agent

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"visatrack-service/internal/domain/agent"
	"visatrack-service/internal/repository/postgres"
)

type AgentService struct {
	agentRepo *postgres.AgentRepository
	logger    *zap.Logger
}

func NewAgentService(agentRepo *postgres.AgentRepository, logger *zap.Logger) *AgentService {
	return &AgentService{
		agentRepo: agentRepo,
		logger:    logger,
	}
}

// Create registers a new sponsoring agent, active by default.
func (s *AgentService) Create(ctx context.Context, req *agent.CreateAgentRequest) (*agent.Agent, error) {
	a := &agent.Agent{
		CompanyName:        req.CompanyName,
		Email:              nullString(req.Email),
		Contact:            nullString(req.Contact),
		ContactPersonName:  nullString(req.ContactPersonName),
		ContactPersonEmail: nullString(req.ContactPersonEmail),
		ContactPersonPhone: nullString(req.ContactPersonPhone),
		CCEmails:           pq.StringArray(req.CCEmails),
		Status:             agent.StatusActive,
	}

	if err := s.agentRepo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create agent", zap.Error(err))
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	s.logger.Info("agent created",
		zap.Int64("agent_id", a.ID),
		zap.String("company", a.CompanyName))
	return a, nil
}

func (s *AgentService) Get(ctx context.Context, id int64) (*agent.Agent, error) {
	return s.agentRepo.FindByID(ctx, id)
}

func (s *AgentService) List(ctx context.Context) ([]agent.Agent, error) {
	return s.agentRepo.List(ctx)
}

// Search matches active agents against company name, email or contact person
// fields.
func (s *AgentService) Search(ctx context.Context, query string) ([]agent.Agent, error) {
	return s.agentRepo.Search(ctx, query)
}

// Update applies a partial update; absent fields keep their current values.
func (s *AgentService) Update(ctx context.Context, id int64, req *agent.UpdateAgentRequest) (*agent.Agent, error) {
	existing, err := s.agentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		existing.CompanyName = *req.CompanyName
	}
	applyString(&existing.Email, req.Email)
	applyString(&existing.Contact, req.Contact)
	applyString(&existing.ContactPersonName, req.ContactPersonName)
	applyString(&existing.ContactPersonEmail, req.ContactPersonEmail)
	applyString(&existing.ContactPersonPhone, req.ContactPersonPhone)
	if req.CCEmails != nil {
		existing.CCEmails = pq.StringArray(req.CCEmails)
	}

	if err := s.agentRepo.Update(ctx, id, existing, req.Status); err != nil {
		s.logger.Error("failed to update agent", zap.Int64("agent_id", id), zap.Error(err))
		return nil, err
	}
	return s.agentRepo.FindByID(ctx, id)
}

// Deactivate soft-deletes an agent. Its clients keep their reference and
// reminder dispatch skips inactive agents.
func (s *AgentService) Deactivate(ctx context.Context, id int64) error {
	if err := s.agentRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("agent deactivated", zap.Int64("agent_id", id))
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func applyString(dst *sql.NullString, v *string) {
	if v != nil {
		*dst = nullString(*v)
	}
}
