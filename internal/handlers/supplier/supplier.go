// internal/handlers/supplier/supplier.go
package supplier

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/domain/supplier"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/pkg/response"
	service "visatrack-service/internal/service/supplier"
)

type SupplierHandler struct {
	supplierService *service.SupplierService
}

func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
	}
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req supplier.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.supplierService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create supplier", err)
		return
	}
	response.Success(c, http.StatusCreated, "supplier created", result)
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list suppliers", err)
		return
	}
	response.Success(c, http.StatusOK, "suppliers retrieved", suppliers)
}

func (h *SupplierHandler) SearchSuppliers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "search query is required", nil)
		return
	}

	suppliers, err := h.supplierService.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to search suppliers", err)
		return
	}
	response.Success(c, http.StatusOK, "suppliers retrieved", suppliers)
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid supplier ID", err)
		return
	}

	result, err := h.supplierService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "supplier not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get supplier", err)
		return
	}
	response.Success(c, http.StatusOK, "supplier retrieved", result)
}

func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid supplier ID", err)
		return
	}

	var req supplier.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.supplierService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "supplier not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update supplier", err)
		return
	}
	response.Success(c, http.StatusOK, "supplier updated", result)
}

func (h *SupplierHandler) DeactivateSupplier(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid supplier ID", err)
		return
	}

	if err := h.supplierService.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "supplier not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to deactivate supplier", err)
		return
	}
	response.Success(c, http.StatusOK, "supplier deactivated", nil)
}

// ReassignSupplier moves every client from one supplier to another, then
// removes the old supplier.
func (h *SupplierHandler) ReassignSupplier(c *gin.Context) {
	var req supplier.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.supplierService.Reassign(c.Request.Context(), &req); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "supplier not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to reassign supplier clients", err)
		return
	}
	response.Success(c, http.StatusOK, "clients reassigned", nil)
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
