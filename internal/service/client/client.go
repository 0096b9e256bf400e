// internal/service/client/client.go
package client

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"visatrack-service/internal/domain/client"
	"visatrack-service/internal/domain/user"
	"visatrack-service/internal/pkg/dateutil"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/repository/postgres"
	ws "visatrack-service/internal/websocket"
)

type ClientService struct {
	clientRepo  *postgres.ClientRepository
	historyRepo *postgres.ClientHistoryRepository
	userRepo    *postgres.UserRepository
	feed        *ws.Hub
	logger      *zap.Logger
}

func NewClientService(clientRepo *postgres.ClientRepository, historyRepo *postgres.ClientHistoryRepository, userRepo *postgres.UserRepository, feed *ws.Hub, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		feed:        feed,
		logger:      logger,
	}
}

// ParseExtension extracts the month count from an extension value. Accepts a
// bare number ("2") or a label ("2 MONTH EXTENSION 1"); empty means no
// extension.
func ParseExtension(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: negative extension %q", xerrors.ErrInvalidInput, v)
		}
		return n, nil
	}
	fields := strings.Fields(strings.ToUpper(v))
	if len(fields) >= 2 && strings.HasPrefix(fields[1], "MONTH") {
		n, err := strconv.Atoi(fields[0])
		if err == nil && n >= 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized extension %q", xerrors.ErrInvalidInput, v)
}

// BasePeriod maps a visa type to its initial validity in months: "30 DAY"
// visas run one month, "60 DAY" two. Unknown types carry no base period.
func BasePeriod(visaType string) int {
	t := strings.ToUpper(visaType)
	switch {
	case strings.Contains(t, "30 DAY"):
		return 1
	case strings.Contains(t, "60 DAY"):
		return 2
	}
	return 0
}

// ExtendedExpiry pushes a base expiry out by extendFor calendar months,
// clamping to the end of the target month. Zero months returns the base
// unchanged.
func ExtendedExpiry(base time.Time, extendFor int) time.Time {
	if extendFor <= 0 {
		return base
	}
	return dateutil.AddMonths(base, extendFor)
}

// RevertedExpiry computes the pre-extension expiry: the stored initial date
// when one exists, otherwise the current expiry minus the extension months.
func RevertedExpiry(c *client.Client) time.Time {
	if c.InitialExpiry.Valid {
		return c.InitialExpiry.Time
	}
	return dateutil.SubtractMonths(c.CurrentExpiry.Time, c.ExtendFor)
}

// Create records a new client. The provided expiry date becomes the initial
// expiry; an extension pushes the current expiry out by that many calendar
// months with end-of-month clamping.
func (s *ClientService) Create(ctx context.Context, req *client.CreateClientRequest) (*client.Client, error) {
	expiry, err := dateutil.Parse(req.VisaExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: visa_expiry_date: %v", xerrors.ErrInvalidInput, err)
	}

	extendFor, err := ParseExtension(req.VisaExtendFor)
	if err != nil {
		return nil, err
	}

	initialPeriod := BasePeriod(req.VisaType)
	currentExpiry := ExtendedExpiry(expiry, extendFor)

	c := &client.Client{
		FirstName:      nullString(req.FirstName),
		LastName:       nullString(req.LastName),
		Image:          nullString(req.Image),
		UID:            nullString(req.UID),
		PassportNo:     nullString(req.PassportNo),
		Email:          nullString(req.Email),
		InitialPeriod:  initialPeriod,
		VisaPeriod:     initialPeriod + extendFor,
		InitialExpiry:  sql.NullTime{Time: expiry, Valid: true},
		CurrentExpiry:  sql.NullTime{Time: currentExpiry, Valid: true},
		ExtendFor:      extendFor,
		VisaSource:     nullString(req.VisaSource),
		VisaType:       nullString(req.VisaType),
		AbscondingType: nullString(req.AbscondingType),
		AgentID:        nullInt64(req.AgentID),
		SupplierID:     nullInt64(req.SupplierID),
		Comment:        nullString(req.Comment),
	}
	if req.VisaApprovedAt != "" {
		approved, err := dateutil.Parse(req.VisaApprovedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: visa_approved_at: %v", xerrors.ErrInvalidInput, err)
		}
		c.VisaApprovedAt = sql.NullTime{Time: approved, Valid: true}
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.Int64("client_id", c.ID),
		zap.String("current_expiry", dateutil.Format(currentExpiry)))

	return c, nil
}

// Get returns one client by id.
func (s *ClientService) Get(ctx context.Context, id int64) (*client.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// GetByUID returns one client by national identity number.
func (s *ClientService) GetByUID(ctx context.Context, uid string) (*client.Client, error) {
	return s.clientRepo.FindByUID(ctx, uid)
}

// List returns active clients with agent and supplier company names joined,
// honoring the sort and expiry-window filters.
func (s *ClientService) List(ctx context.Context, filters *client.ClientListFilters) ([]client.Client, error) {
	return s.clientRepo.List(ctx, filters)
}

// ListForUser returns the client listing visible to one account: agent-role
// accounts see only the clients of the agent they belong to, everyone else
// gets the full listing.
func (s *ClientService) ListForUser(ctx context.Context, userID int64, role string, filters *client.ClientListFilters) ([]client.Client, error) {
	if role != user.RoleAgent {
		return s.clientRepo.List(ctx, filters)
	}
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.AgentID.Valid {
		return []client.Client{}, nil
	}
	return s.clientRepo.ListByAgent(ctx, u.AgentID.Int64)
}

// ListByAgent returns the active clients sponsored through one agent.
func (s *ClientService) ListByAgent(ctx context.Context, agentID int64) ([]client.Client, error) {
	return s.clientRepo.ListByAgent(ctx, agentID)
}

// ApplyUpdate folds a partial update request into a client record. A new
// extension is applied to the expiry date supplied alongside it, or to the
// current stored expiry when none is, so sequential extensions stack;
// extend_for records only the most recent extension. A bare expiry change
// resets the record to an unextended state. initial_expiry and initial_period
// are fixed at creation and never touched here.
func ApplyUpdate(c *client.Client, req *client.UpdateClientRequest) error {
	applyString(&c.FirstName, req.FirstName)
	applyString(&c.LastName, req.LastName)
	applyString(&c.Image, req.Image)
	applyString(&c.UID, req.UID)
	applyString(&c.PassportNo, req.PassportNo)
	applyString(&c.Email, req.Email)
	applyString(&c.VisaSource, req.VisaSource)
	applyString(&c.AbscondingType, req.AbscondingType)
	applyString(&c.Comment, req.Comment)

	if req.VisaType != nil {
		c.VisaType = nullString(*req.VisaType)
	}
	if req.AgentID != nil {
		c.AgentID = nullInt64(req.AgentID)
	}
	if req.SupplierID != nil {
		c.SupplierID = nullInt64(req.SupplierID)
	}
	if req.VisaApprovedAt != nil {
		approved, err := dateutil.Parse(*req.VisaApprovedAt)
		if err != nil {
			return fmt.Errorf("%w: visa_approved_at: %v", xerrors.ErrInvalidInput, err)
		}
		c.VisaApprovedAt = sql.NullTime{Time: approved, Valid: true}
	}

	var newExpiry *time.Time
	if req.VisaExpiryDate != nil {
		parsed, err := dateutil.Parse(*req.VisaExpiryDate)
		if err != nil {
			return fmt.Errorf("%w: visa_expiry_date: %v", xerrors.ErrInvalidInput, err)
		}
		newExpiry = &parsed
	}

	switch {
	case req.VisaExtendFor != nil:
		extendFor, err := ParseExtension(*req.VisaExtendFor)
		if err != nil {
			return err
		}
		var base time.Time
		switch {
		case newExpiry != nil:
			base = *newExpiry
		case c.CurrentExpiry.Valid:
			base = c.CurrentExpiry.Time
		default:
			return fmt.Errorf("%w: client has no expiry date to extend", xerrors.ErrInvalidInput)
		}
		c.CurrentExpiry = sql.NullTime{Time: ExtendedExpiry(base, extendFor), Valid: true}
		c.ExtendFor = extendFor
		c.VisaPeriod = c.InitialPeriod + extendFor
	case newExpiry != nil:
		// A bare expiry change resets the record to an unextended state.
		c.CurrentExpiry = sql.NullTime{Time: *newExpiry, Valid: true}
		c.ExtendFor = 0
		c.VisaPeriod = c.InitialPeriod
	}
	return nil
}

// Update applies a partial update and persists the result.
func (s *ClientService) Update(ctx context.Context, id int64, req *client.UpdateClientRequest) (*client.Client, error) {
	existing, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ApplyUpdate(existing, req); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, id, existing); err != nil {
		s.logger.Error("failed to update client", zap.Int64("client_id", id), zap.Error(err))
		return nil, err
	}
	s.announce(existing)
	return existing, nil
}

// RevertExpiry undoes the current extension: the expiry returns to the stored
// initial date when one exists, otherwise the extension months are subtracted
// back off. The extension counter clears and the visa period drops to the
// base period.
func (s *ClientService) RevertExpiry(ctx context.Context, clientID int64) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !c.CurrentExpiry.Valid {
		return nil, fmt.Errorf("%w: client has no expiry date", xerrors.ErrInvalidInput)
	}

	reverted := RevertedExpiry(c)

	visaPeriod := c.InitialPeriod
	if visaPeriod < 0 {
		visaPeriod = 0
	}

	if err := s.clientRepo.UpdateExpiryFields(ctx, clientID, reverted, 0, visaPeriod); err != nil {
		s.logger.Error("failed to revert expiry", zap.Int64("client_id", clientID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("expiry reverted",
		zap.Int64("client_id", clientID),
		zap.String("from", dateutil.Format(c.CurrentExpiry.Time)),
		zap.String("to", dateutil.Format(reverted)))

	c.CurrentExpiry = sql.NullTime{Time: reverted, Valid: true}
	c.ExtendFor = 0
	c.VisaPeriod = visaPeriod
	s.announce(c)
	return c, nil
}

// announce pushes the updated record to websocket subscribers.
func (s *ClientService) announce(c *client.Client) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(ws.EventClientUpdated, c.ToResponse())
}

// Delete removes a client outright, without a history snapshot.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.clientRepo.Delete(ctx, id)
}

// History returns archived records, most recently moved first.
func (s *ClientService) History(ctx context.Context) ([]client.History, error) {
	return s.historyRepo.List(ctx)
}

// UpdateHistoryStatus reclassifies an archived record.
func (s *ClientService) UpdateHistoryStatus(ctx context.Context, id int64, status string) error {
	if !client.ValidHistoryStatus(status) {
		return fmt.Errorf("%w: history status %q", xerrors.ErrInvalidStatus, status)
	}
	return s.historyRepo.UpdateStatus(ctx, id, status)
}

// DeleteHistory removes an archived record permanently.
func (s *ClientService) DeleteHistory(ctx context.Context, id int64) error {
	return s.historyRepo.Delete(ctx, id)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func applyString(dst *sql.NullString, v *string) {
	if v != nil {
		*dst = nullString(*v)
	}
}
