// internal/handlers/agent/agent.go
package agent

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/domain/agent"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/pkg/response"
	service "visatrack-service/internal/service/agent"
	clientservice "visatrack-service/internal/service/client"
)

type AgentHandler struct {
	agentService  *service.AgentService
	clientService *clientservice.ClientService
}

func NewAgentHandler(agentService *service.AgentService, clientService *clientservice.ClientService) *AgentHandler {
	return &AgentHandler{
		agentService:  agentService,
		clientService: clientService,
	}
}

func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req agent.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agentService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create agent", err)
		return
	}

	response.Success(c, http.StatusCreated, "agent created", result)
}

func (h *AgentHandler) ListAgents(c *gin.Context) {
	agents, err := h.agentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list agents", err)
		return
	}
	response.Success(c, http.StatusOK, "agents retrieved", agents)
}

// SearchAgents matches active agents against company and contact fields.
func (h *AgentHandler) SearchAgents(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "search query is required", nil)
		return
	}

	agents, err := h.agentService.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to search agents", err)
		return
	}
	response.Success(c, http.StatusOK, "agents retrieved", agents)
}

func (h *AgentHandler) GetAgent(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid agent ID", err)
		return
	}

	result, err := h.agentService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "agent not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get agent", err)
		return
	}
	response.Success(c, http.StatusOK, "agent retrieved", result)
}

// GetAgentClients lists the clients sponsored through one agent.
func (h *AgentHandler) GetAgentClients(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid agent ID", err)
		return
	}

	clients, err := h.clientService.ListByAgent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list agent clients", err)
		return
	}
	response.Success(c, http.StatusOK, "clients retrieved", clients)
}

func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid agent ID", err)
		return
	}

	var req agent.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "agent not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update agent", err)
		return
	}
	response.Success(c, http.StatusOK, "agent updated", result)
}

// DeactivateAgent soft-deletes an agent; its clients keep their reference.
func (h *AgentHandler) DeactivateAgent(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid agent ID", err)
		return
	}

	if err := h.agentService.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "agent not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to deactivate agent", err)
		return
	}
	response.Success(c, http.StatusOK, "agent deactivated", nil)
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
