// internal/domain/agent/entity.go
package agent

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Agent is a sponsoring company responsible for a set of clients. Agents are
// soft-deactivated rather than deleted so history rows keep their reference.
type Agent struct {
	ID                 int64          `json:"id" db:"id"`
	CompanyName        string         `json:"company_name" db:"company_name"`
	Email              sql.NullString `json:"email,omitempty" db:"email"`
	Contact            sql.NullString `json:"contact,omitempty" db:"contact"`
	ContactPersonName  sql.NullString `json:"contact_person_name,omitempty" db:"contact_person_name"`
	ContactPersonEmail sql.NullString `json:"contact_person_email,omitempty" db:"contact_person_email"`
	ContactPersonPhone sql.NullString `json:"contact_person_phone,omitempty" db:"contact_person_phone"`
	// CCEmails receive a copy of every expiry reminder sent to this agent.
	CCEmails pq.StringArray `json:"cc_emails,omitempty" db:"cc_emails"`
	Status   string         `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
