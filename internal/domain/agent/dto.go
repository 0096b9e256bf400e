// internal/domain/agent/dto.go
package agent

type CreateAgentRequest struct {
	CompanyName        string   `json:"company_name" binding:"required,max=255"`
	Email              string   `json:"email" binding:"omitempty,email,max=255"`
	Contact            string   `json:"contact" binding:"max=50"`
	ContactPersonName  string   `json:"contact_person_name" binding:"max=255"`
	ContactPersonEmail string   `json:"contact_person_email" binding:"omitempty,email,max=255"`
	ContactPersonPhone string   `json:"contact_person_phone" binding:"max=50"`
	CCEmails           []string `json:"cc_emails" binding:"omitempty,dive,email"`
}

type UpdateAgentRequest struct {
	CompanyName        *string  `json:"company_name" binding:"omitempty,max=255"`
	Email              *string  `json:"email" binding:"omitempty,email,max=255"`
	Contact            *string  `json:"contact" binding:"omitempty,max=50"`
	ContactPersonName  *string  `json:"contact_person_name" binding:"omitempty,max=255"`
	ContactPersonEmail *string  `json:"contact_person_email" binding:"omitempty,email,max=255"`
	ContactPersonPhone *string  `json:"contact_person_phone" binding:"omitempty,max=50"`
	CCEmails           []string `json:"cc_emails" binding:"omitempty,dive,email"`
	// Status may be set to active or inactive; absent keeps the current value.
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
