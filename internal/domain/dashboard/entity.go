// internal/domain/dashboard/entity.go
package dashboard

import "time"

// Stats is the operator dashboard snapshot.
type Stats struct {
	TotalClients       int64 `json:"total_clients"`
	ExpiringThisWeek   int64 `json:"expiring_this_week"`
	ExpiringThisMonth  int64 `json:"expiring_this_month"`
	ExpiredUnarchived  int64 `json:"expired_unarchived"`
	ActiveAgents       int64 `json:"active_agents"`
	ActiveSuppliers    int64 `json:"active_suppliers"`
	ArchivedClients    int64 `json:"archived_clients"`
	NotificationsToday int64 `json:"notifications_today"`

	// ExpirySeries holds one point per day for the next 30 days; days with
	// no expiring visas are omitted.
	ExpirySeries []ExpiryPoint `json:"expiry_series"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ExpiryPoint is one day's count of visas reaching their current expiry.
type ExpiryPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
