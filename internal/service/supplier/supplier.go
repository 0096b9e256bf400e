// internal/service/supplier/supplier.go
package supplier

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"visatrack-service/internal/domain/supplier"
	"visatrack-service/internal/repository/postgres"
)

type SupplierService struct {
	db           *postgres.DB
	supplierRepo *postgres.SupplierRepository
	logger       *zap.Logger
}

func NewSupplierService(db *postgres.DB, supplierRepo *postgres.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		db:           db,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create registers a new supplier, active by default.
func (s *SupplierService) Create(ctx context.Context, req *supplier.CreateSupplierRequest) (*supplier.Supplier, error) {
	sp := &supplier.Supplier{
		CompanyName:        req.CompanyName,
		Email:              nullString(req.Email),
		Contact:            nullString(req.Contact),
		ContactPersonName:  nullString(req.ContactPersonName),
		ContactPersonPhone: nullString(req.ContactPersonPhone),
		Status:             supplier.StatusActive,
	}

	if err := s.supplierRepo.Create(ctx, sp); err != nil {
		s.logger.Error("failed to create supplier", zap.Error(err))
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.Info("supplier created",
		zap.Int64("supplier_id", sp.ID),
		zap.String("company", sp.CompanyName))
	return sp, nil
}

func (s *SupplierService) Get(ctx context.Context, id int64) (*supplier.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

func (s *SupplierService) List(ctx context.Context) ([]supplier.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

func (s *SupplierService) Search(ctx context.Context, query string) ([]supplier.Supplier, error) {
	return s.supplierRepo.Search(ctx, query)
}

// Update applies a partial update; absent fields keep their current values.
func (s *SupplierService) Update(ctx context.Context, id int64, req *supplier.UpdateSupplierRequest) (*supplier.Supplier, error) {
	existing, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		existing.CompanyName = *req.CompanyName
	}
	applyString(&existing.Email, req.Email)
	applyString(&existing.Contact, req.Contact)
	applyString(&existing.ContactPersonName, req.ContactPersonName)
	applyString(&existing.ContactPersonPhone, req.ContactPersonPhone)

	if err := s.supplierRepo.Update(ctx, id, existing, req.Status); err != nil {
		s.logger.Error("failed to update supplier", zap.Int64("supplier_id", id), zap.Error(err))
		return nil, err
	}
	return s.supplierRepo.FindByID(ctx, id)
}

// Deactivate soft-deletes a supplier without touching its clients.
func (s *SupplierService) Deactivate(ctx context.Context, id int64) error {
	if err := s.supplierRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("supplier deactivated", zap.Int64("supplier_id", id))
	return nil
}

// Reassign moves every client from one supplier to another and removes the
// old supplier, in a single transaction.
func (s *SupplierService) Reassign(ctx context.Context, req *supplier.ReassignRequest) error {
	if _, err := s.supplierRepo.FindByID(ctx, req.NewSupplierID); err != nil {
		return fmt.Errorf("new supplier: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin reassign tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.supplierRepo.ReassignClientsTx(ctx, tx, req.OldSupplierID, req.NewSupplierID); err != nil {
		return fmt.Errorf("reassign clients: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reassign tx: %w", err)
	}

	s.logger.Info("supplier clients reassigned",
		zap.Int64("old_supplier_id", req.OldSupplierID),
		zap.Int64("new_supplier_id", req.NewSupplierID))
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
