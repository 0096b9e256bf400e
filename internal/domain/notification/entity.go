// internal/domain/notification/entity.go
package notification

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Category buckets a client by proximity to visa expiry.
type Category string

const (
	CategoryMonthBefore  Category = "month_before"
	Category15DaysBefore Category = "15_days_before"
	CategoryWeekBefore   Category = "week_before"
	CategoryOnExpiryDate Category = "on_expiry_date"
	CategoryWeekAfter    Category = "week_after"
)

// UrgencyOrder lists categories most urgent first; reminder emails render
// their sections in this order.
var UrgencyOrder = []Category{
	CategoryOnExpiryDate,
	CategoryWeekAfter,
	CategoryWeekBefore,
	Category15DaysBefore,
	CategoryMonthBefore,
}

// AllCategories lists every category, used for stat breakdowns.
var AllCategories = []Category{
	CategoryMonthBefore,
	Category15DaysBefore,
	CategoryWeekBefore,
	CategoryOnExpiryDate,
	CategoryWeekAfter,
}

// Attempt statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Attempt is one append-only audit row: a single (client, category) send
// outcome.
type Attempt struct {
	ID           int64          `json:"id" db:"id"`
	ClientID     int64          `json:"client_id" db:"client_id"`
	Type         Category       `json:"notification_type" db:"notification_type"`
	SentAt       time.Time      `json:"sent_at" db:"sent_at"`
	Status       string         `json:"status" db:"status"`
	ErrorMessage sql.NullString `json:"error_message,omitempty" db:"error_message"`
}

// AttemptKey identifies a (client, category) pair for dedup lookups.
type AttemptKey struct {
	ClientID int64
	Type     Category
}

// Candidate is one classified client ready for dispatch: the client's
// display fields plus its resolved agent.
type Candidate struct {
	ClientID        int64
	FirstName       string
	LastName        string
	Email           string
	VisaType        string
	ExpiryDate      time.Time
	DaysUntilExpiry int
	Category        Category

	AgentID      int64
	AgentCompany string
	AgentEmail   string
	AgentCC      pq.StringArray
}

// DailyStats is one additive row per calendar date. Counters accumulate
// across runs within the same day; duration reflects the latest run.
type DailyStats struct {
	ID            int64     `json:"id" db:"id"`
	Date          time.Time `json:"date" db:"stat_date"`
	TotalAttempts int       `json:"total_attempts" db:"total_attempts"`
	Successful    int       `json:"successful" db:"successful"`
	Failed        int       `json:"failed" db:"failed"`
	Skipped       int       `json:"skipped" db:"skipped"`
	DurationMS    int64     `json:"duration_ms" db:"duration_ms"`
}

// TypeStats aggregates per-category outcomes within one run.
type TypeStats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// RunSummary is the result of one classify+dispatch run.
type RunSummary struct {
	RunID          string                  `json:"run_id"`
	StartedAt      time.Time               `json:"started_at"`
	Duration       time.Duration           `json:"duration"`
	TotalAgents    int                     `json:"total_agents"`
	AgentsNotified int                     `json:"agents_notified"`
	TotalClients   int                     `json:"total_clients"`
	Succeeded      int                     `json:"succeeded"`
	Failed         int                     `json:"failed"`
	Skipped        int                     `json:"skipped"`
	ByType         map[Category]*TypeStats `json:"by_type"`
}

// SuccessRate returns succeeded/total as a percentage, 0 when nothing ran.
func (s *RunSummary) SuccessRate() float64 {
	if s.TotalClients == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.TotalClients) * 100
}

// StatRollup is one aggregated (type, status, day) count from the audit log.
type StatRollup struct {
	Type   Category  `json:"notification_type"`
	Status string    `json:"status"`
	Count  int64     `json:"count"`
	Date   time.Time `json:"date"`
}

// ClientAttempt is an audit row joined with the client it concerns.
type ClientAttempt struct {
	Attempt
	FirstName  sql.NullString `json:"first_name,omitempty"`
	LastName   sql.NullString `json:"last_name,omitempty"`
	Email      sql.NullString `json:"email,omitempty"`
	VisaType   sql.NullString `json:"visa_type,omitempty"`
	ExpiryDate sql.NullTime   `json:"visa_expiry_date,omitempty"`
}
