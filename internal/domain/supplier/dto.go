// internal/domain/supplier/dto.go
package supplier

type CreateSupplierRequest struct {
	CompanyName        string `json:"company_name" binding:"required,max=255"`
	Email              string `json:"email" binding:"omitempty,email,max=255"`
	Contact            string `json:"contact" binding:"max=50"`
	ContactPersonName  string `json:"contact_person_name" binding:"max=255"`
	ContactPersonPhone string `json:"contact_person_phone" binding:"max=50"`
}

type UpdateSupplierRequest struct {
	CompanyName        *string `json:"company_name" binding:"omitempty,max=255"`
	Email              *string `json:"email" binding:"omitempty,email,max=255"`
	Contact            *string `json:"contact" binding:"omitempty,max=50"`
	ContactPersonName  *string `json:"contact_person_name" binding:"omitempty,max=255"`
	ContactPersonPhone *string `json:"contact_person_phone" binding:"omitempty,max=50"`
	Status             *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ReassignRequest struct {
	OldSupplierID int64 `json:"old_supplier_id" binding:"required"`
	NewSupplierID int64 `json:"new_supplier_id" binding:"required"`
}
