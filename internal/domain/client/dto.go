// internal/domain/client/dto.go
package client

type CreateClientRequest struct {
	FirstName      string `json:"first_name" binding:"max=100"`
	LastName       string `json:"last_name" binding:"max=100"`
	Image          string `json:"image"`
	UID            string `json:"uid" binding:"max=50"`
	PassportNo     string `json:"passport_no" binding:"max=50"`
	Email          string `json:"email" binding:"omitempty,email,max=255"`
	VisaApprovedAt string `json:"visa_approved_at"`
	VisaExpiryDate string `json:"visa_expiry_date" binding:"required"`
	// VisaExtendFor accepts either a month count or a label such as
	// "1 MONTH EXTENSION 1".
	VisaExtendFor  string `json:"visa_extend_for"`
	VisaSource     string `json:"visa_source"`
	VisaType       string `json:"visa_type"`
	AbscondingType string `json:"absconding_type"`
	AgentID        *int64 `json:"agent_id"`
	SupplierID     *int64 `json:"supplier_id"`
	Comment        string `json:"comment"`
}

type UpdateClientRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,max=100"`
	Image          *string `json:"image"`
	UID            *string `json:"uid" binding:"omitempty,max=50"`
	PassportNo     *string `json:"passport_no" binding:"omitempty,max=50"`
	Email          *string `json:"email" binding:"omitempty,email,max=255"`
	VisaApprovedAt *string `json:"visa_approved_at"`
	VisaExpiryDate *string `json:"visa_expiry_date"`
	VisaExtendFor  *string `json:"visa_extend_for"`
	VisaSource     *string `json:"visa_source"`
	VisaType       *string `json:"visa_type"`
	AbscondingType *string `json:"absconding_type"`
	AgentID        *int64  `json:"agent_id"`
	SupplierID     *int64  `json:"supplier_id"`
	Comment        *string `json:"comment"`
}

type ClientListFilters struct {
	// SortBy is one of expiry, agent, supplier, uid.
	SortBy string `form:"sortBy"`
	// FilterExpiry limits results to visas expiring within the next two months.
	FilterExpiry bool `form:"filterExpiry"`
}

type RevertExpiryRequest struct {
	ClientID int64 `json:"clientId" binding:"required"`
}

type UpdateHistoryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ClientResponse is the outward shape of a client record. Date fields are
// rendered from local calendar components, never through a UTC conversion.
type ClientResponse struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Image           string `json:"image,omitempty"`
	UID             string `json:"uid,omitempty"`
	PassportNo      string `json:"passport_no,omitempty"`
	Email           string `json:"email,omitempty"`
	VisaApprovedAt  string `json:"visa_approved_at,omitempty"`
	InitialPeriod   int    `json:"initial_period"`
	VisaPeriod      int    `json:"visa_period"`
	InitialExpiry   string `json:"initial_expiry,omitempty"`
	CurrentExpiry   string `json:"current_expiry,omitempty"`
	ExtendFor       int    `json:"extend_for"`
	VisaSource      string `json:"visa_source,omitempty"`
	VisaType        string `json:"visa_type,omitempty"`
	AbscondingType  string `json:"absconding_type,omitempty"`
	AgentID         *int64 `json:"agent_id,omitempty"`
	SupplierID      *int64 `json:"supplier_id,omitempty"`
	AgentCompany    string `json:"agent_company,omitempty"`
	SupplierCompany string `json:"supplier_company,omitempty"`
	Comment         string `json:"comment,omitempty"`
}

// HistoryResponse is the outward shape of an archived record.
type HistoryResponse struct {
	ID               int64  `json:"id"`
	OriginalClientID int64  `json:"original_client_id"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	UID              string `json:"uid,omitempty"`
	PassportNo       string `json:"passport_no,omitempty"`
	Email            string `json:"email,omitempty"`
	VisaPeriod       int    `json:"visa_period"`
	CurrentExpiry    string `json:"current_expiry,omitempty"`
	VisaType         string `json:"visa_type,omitempty"`
	AgentCompany     string `json:"agent_company,omitempty"`
	MovedAt          string `json:"moved_at"`
	Status           string `json:"status"`
}
