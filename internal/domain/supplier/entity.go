// internal/domain/supplier/entity.go
package supplier

import (
	"database/sql"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Supplier is a manpower supplier referenced by client records.
type Supplier struct {
	ID                 int64          `json:"id" db:"id"`
	CompanyName        string         `json:"company_name" db:"company_name"`
	Email              sql.NullString `json:"email,omitempty" db:"email"`
	Contact            sql.NullString `json:"contact,omitempty" db:"contact"`
	ContactPersonName  sql.NullString `json:"contact_person_name,omitempty" db:"contact_person_name"`
	ContactPersonPhone sql.NullString `json:"contact_person_phone,omitempty" db:"contact_person_phone"`
	Status             string         `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
