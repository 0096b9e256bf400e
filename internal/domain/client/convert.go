// internal/domain/client/convert.go
package client

import (
	"database/sql"

	"visatrack-service/internal/pkg/dateutil"
)

// ToResponse renders a client for the API, formatting dates from local
// calendar components.
func (c *Client) ToResponse() *ClientResponse {
	return &ClientResponse{
		ID:              c.ID,
		FirstName:       c.FirstName.String,
		LastName:        c.LastName.String,
		Image:           c.Image.String,
		UID:             c.UID.String,
		PassportNo:      c.PassportNo.String,
		Email:           c.Email.String,
		VisaApprovedAt:  formatNullDate(c.VisaApprovedAt),
		InitialPeriod:   c.InitialPeriod,
		VisaPeriod:      c.VisaPeriod,
		InitialExpiry:   formatNullDate(c.InitialExpiry),
		CurrentExpiry:   formatNullDate(c.CurrentExpiry),
		ExtendFor:       c.ExtendFor,
		VisaSource:      c.VisaSource.String,
		VisaType:        c.VisaType.String,
		AbscondingType:  c.AbscondingType.String,
		AgentID:         nullInt64Ptr(c.AgentID),
		SupplierID:      nullInt64Ptr(c.SupplierID),
		AgentCompany:    c.AgentCompany.String,
		SupplierCompany: c.SupplierCompany.String,
		Comment:         c.Comment.String,
	}
}

// ToResponse renders an archived record for the API.
func (h *History) ToResponse() *HistoryResponse {
	return &HistoryResponse{
		ID:               h.ID,
		OriginalClientID: h.OriginalClientID,
		FirstName:        h.FirstName.String,
		LastName:         h.LastName.String,
		UID:              h.UID.String,
		PassportNo:       h.PassportNo.String,
		Email:            h.Email.String,
		VisaPeriod:       h.VisaPeriod,
		CurrentExpiry:    formatNullDate(h.CurrentExpiry),
		VisaType:         h.VisaType.String,
		AgentCompany:     h.AgentCompany.String,
		MovedAt:          dateutil.Format(h.MovedAt),
		Status:           h.Status,
	}
}

func formatNullDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return dateutil.Format(t.Time)
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
