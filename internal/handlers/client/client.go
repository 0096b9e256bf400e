// internal/handlers/client/client.go
package client

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/domain/client"
	"visatrack-service/internal/middleware"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/pkg/response"
	service "visatrack-service/internal/service/client"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClient registers a new client record.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.clientService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "invalid client data", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create client", err)
		return
	}

	response.Success(c, http.StatusCreated, "client created", result.ToResponse())
}

// ListClients returns active clients with optional sort and expiry filters.
// Agent-role callers see only their own clients.
func (h *ClientHandler) ListClients(c *gin.Context) {
	var filters client.ClientListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	clients, err := h.clientService.ListForUser(c.Request.Context(), userID, role, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list clients", err)
		return
	}

	out := make([]*client.ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, clients[i].ToResponse())
	}
	response.Success(c, http.StatusOK, "clients retrieved", out)
}

// GetClient returns one client by id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.clientService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get client", err)
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result.ToResponse())
}

// GetClientByUID looks a client up by national identity number.
func (h *ClientHandler) GetClientByUID(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		response.Error(c, http.StatusBadRequest, "uid is required", nil)
		return
	}

	result, err := h.clientService.GetByUID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get client", err)
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result.ToResponse())
}

// UpdateClient applies a partial update.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.clientService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "client not found")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid client data", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to update client", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "client updated", result.ToResponse())
}

// DeleteClient removes a client permanently.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete client", err)
		return
	}

	response.Success(c, http.StatusOK, "client deleted", nil)
}

// RevertExpiry undoes a client's current visa extension.
func (h *ClientHandler) RevertExpiry(c *gin.Context) {
	var req client.RevertExpiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.clientService.RevertExpiry(c.Request.Context(), req.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "client not found")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "cannot revert expiry", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to revert expiry", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "expiry reverted", result.ToResponse())
}

// ListHistory returns archived records, most recent first.
func (h *ClientHandler) ListHistory(c *gin.Context) {
	records, err := h.clientService.History(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list history", err)
		return
	}

	out := make([]*client.HistoryResponse, 0, len(records))
	for i := range records {
		out = append(out, records[i].ToResponse())
	}
	response.Success(c, http.StatusOK, "history retrieved", out)
}

// UpdateHistoryStatus reclassifies an archived record.
func (h *ClientHandler) UpdateHistoryStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid history ID", err)
		return
	}

	var req client.UpdateHistoryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.clientService.UpdateHistoryStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "invalid history status", err)
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "history record not found")
		default:
			response.Error(c, http.StatusInternalServerError, "failed to update history status", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "history status updated", nil)
}

// DeleteHistory removes an archived record permanently.
func (h *ClientHandler) DeleteHistory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid history ID", err)
		return
	}

	if err := h.clientService.DeleteHistory(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "history record not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete history record", err)
		return
	}

	response.Success(c, http.StatusOK, "history record deleted", nil)
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
