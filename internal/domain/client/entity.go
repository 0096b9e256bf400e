// internal/domain/client/entity.go
package client

import (
	"database/sql"
	"time"
)

// Client is an active case record: a sponsored person with a live visa.
type Client struct {
	ID         int64          `json:"id" db:"id"`
	FirstName  sql.NullString `json:"first_name,omitempty" db:"first_name"`
	LastName   sql.NullString `json:"last_name,omitempty" db:"last_name"`
	Image      sql.NullString `json:"image,omitempty" db:"image"`
	UID        sql.NullString `json:"uid,omitempty" db:"uid"`
	PassportNo sql.NullString `json:"passport_no,omitempty" db:"passport_no"`
	Email      sql.NullString `json:"email,omitempty" db:"email"`

	// Visa lifecycle fields
	VisaApprovedAt sql.NullTime `json:"visa_approved_at,omitempty" db:"visa_approved_at"`
	InitialPeriod  int          `json:"initial_period" db:"initial_period"`
	VisaPeriod     int          `json:"visa_period" db:"visa_period"`
	InitialExpiry  sql.NullTime `json:"initial_expiry,omitempty" db:"initial_expiry"`
	CurrentExpiry  sql.NullTime `json:"current_expiry,omitempty" db:"current_expiry"`
	ExtendFor      int          `json:"extend_for" db:"extend_for"`

	VisaSource     sql.NullString `json:"visa_source,omitempty" db:"visa_source"`
	VisaType       sql.NullString `json:"visa_type,omitempty" db:"visa_type"`
	AbscondingType sql.NullString `json:"absconding_type,omitempty" db:"absconding_type"`

	AgentID    sql.NullInt64  `json:"agent_id,omitempty" db:"agent_id"`
	SupplierID sql.NullInt64  `json:"supplier_id,omitempty" db:"supplier_id"`
	Comment    sql.NullString `json:"comment,omitempty" db:"comment"`

	// Joined display fields
	AgentCompany    sql.NullString `json:"agent_company,omitempty" db:"agent_company"`
	SupplierCompany sql.NullString `json:"supplier_company,omitempty" db:"supplier_company"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// History statuses an archived record can carry.
const (
	HistoryStatusArchived      = "archived"
	HistoryStatusClosed        = "closed"
	HistoryStatusStatusChanged = "status changed"
	HistoryStatusAbsconded     = "absconded"
)

// ValidHistoryStatus reports whether s is an allowed history status.
func ValidHistoryStatus(s string) bool {
	switch s {
	case HistoryStatusArchived, HistoryStatusClosed, HistoryStatusStatusChanged, HistoryStatusAbsconded:
		return true
	}
	return false
}

// History is a snapshot of a client at the moment it fell past expiry.
// Created only by the archival engine; never promoted back to active.
type History struct {
	ID               int64          `json:"id" db:"id"`
	OriginalClientID int64          `json:"original_client_id" db:"original_client_id"`
	FirstName        sql.NullString `json:"first_name,omitempty" db:"first_name"`
	LastName         sql.NullString `json:"last_name,omitempty" db:"last_name"`
	Image            sql.NullString `json:"image,omitempty" db:"image"`
	UID              sql.NullString `json:"uid,omitempty" db:"uid"`
	PassportNo       sql.NullString `json:"passport_no,omitempty" db:"passport_no"`
	Email            sql.NullString `json:"email,omitempty" db:"email"`
	VisaApprovedAt   sql.NullTime   `json:"visa_approved_at,omitempty" db:"visa_approved_at"`
	MigratedAt       sql.NullTime   `json:"migrated_at,omitempty" db:"migrated_at"`
	InitialPeriod    int            `json:"initial_period" db:"initial_period"`
	VisaPeriod       int            `json:"visa_period" db:"visa_period"`
	CurrentExpiry    sql.NullTime   `json:"current_expiry,omitempty" db:"current_expiry"`
	ExtendFor        int            `json:"extend_for" db:"extend_for"`
	VisaSource       sql.NullString `json:"visa_source,omitempty" db:"visa_source"`
	VisaType         sql.NullString `json:"visa_type,omitempty" db:"visa_type"`
	AgentID          sql.NullInt64  `json:"agent_id,omitempty" db:"agent_id"`
	SupplierID       sql.NullInt64  `json:"supplier_id,omitempty" db:"supplier_id"`
	AgentCompany     sql.NullString `json:"agent_company,omitempty" db:"agent_company"`
	MovedAt          time.Time      `json:"moved_at" db:"moved_at"`
	Status           string         `json:"status" db:"status"`
}

// ArchiveResult reports one archival run. Inserted and Deleted are equal on
// success; the run is rolled back entirely otherwise.
type ArchiveResult struct {
	Inserted int64 `json:"inserted"`
	Deleted  int64 `json:"deleted"`
}
