// internal/service/expiry/notifier.go
package expiry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"visatrack-service/internal/domain/notification"
	"visatrack-service/internal/pkg/dateutil"
	"visatrack-service/internal/service/email"
)

// Store is the persistence surface the dispatcher needs: candidate listing,
// the recent-success window for dedup, and the append-only audit log.
type Store interface {
	ListCandidates(ctx context.Context) ([]notification.Candidate, error)
	RecentSuccesses(ctx context.Context, since time.Time) (map[notification.AttemptKey]struct{}, error)
	LogAttempt(ctx context.Context, a *notification.Attempt) error
	AddDailyStats(ctx context.Context, s *notification.DailyStats) error
}

// Notifier classifies clients into expiry windows and dispatches one
// consolidated reminder email per agent.
type Notifier struct {
	store       Store
	sender      email.Sender
	dedupWindow time.Duration
	logger      *zap.Logger
}

func NewNotifier(store Store, sender email.Sender, dedupWindow time.Duration, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:       store,
		sender:      sender,
		dedupWindow: dedupWindow,
		logger:      logger,
	}
}

var sectionTitles = map[notification.Category]string{
	notification.CategoryOnExpiryDate: "EXPIRING NOW",
	notification.CategoryWeekAfter:    "EXPIRED ONE WEEK AGO",
	notification.CategoryWeekBefore:   "EXPIRING IN ONE WEEK",
	notification.Category15DaysBefore: "EXPIRING IN 15 DAYS",
	notification.CategoryMonthBefore:  "EXPIRING IN ONE MONTH",
}

// agentBatch collects one agent's classified clients for a single email.
type agentBatch struct {
	agentID    int64
	company    string
	email      string
	cc         []string
	candidates []notification.Candidate
}

// Run executes one classify+dispatch pass. Each agent with at least one
// non-deduplicated client gets exactly one email; a delivery failure for one
// agent never blocks the others. Every per-client outcome lands in the audit
// log, and the day's counters are rolled into the daily stats row.
func (n *Notifier) Run(ctx context.Context) (*notification.RunSummary, error) {
	start := time.Now()
	today := dateutil.Today()

	summary := &notification.RunSummary{
		RunID:     ulid.Make().String(),
		StartedAt: start,
		ByType:    make(map[notification.Category]*notification.TypeStats),
	}
	for _, cat := range notification.AllCategories {
		summary.ByType[cat] = &notification.TypeStats{}
	}

	candidates, err := n.store.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	recent, err := n.store.RecentSuccesses(ctx, start.Add(-n.dedupWindow))
	if err != nil {
		return nil, fmt.Errorf("recent successes: %w", err)
	}

	batches := n.classify(candidates, today, recent, summary)
	summary.TotalAgents = len(batches)

	for _, batch := range batches {
		n.dispatch(ctx, batch, today, summary)
	}

	summary.Duration = time.Since(start)

	stats := &notification.DailyStats{
		Date:          today,
		TotalAttempts: summary.Succeeded + summary.Failed,
		Successful:    summary.Succeeded,
		Failed:        summary.Failed,
		Skipped:       summary.Skipped,
		DurationMS:    summary.Duration.Milliseconds(),
	}
	if err := n.store.AddDailyStats(ctx, stats); err != nil {
		n.logger.Error("failed to record daily stats", zap.Error(err))
	}

	n.logger.Info("expiry run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("agents_notified", summary.AgentsNotified),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Float64("success_rate", summary.SuccessRate()),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// classify buckets candidates into per-agent batches, dropping clients outside
// every window and counting recently-notified ones as skipped. Batch order
// follows the candidates' agent order; within a batch the repository's
// expiry-ascending order is preserved.
func (n *Notifier) classify(candidates []notification.Candidate, today time.Time,
	recent map[notification.AttemptKey]struct{}, summary *notification.RunSummary) []*agentBatch {

	byAgent := make(map[int64]*agentBatch)
	var order []*agentBatch

	for _, c := range candidates {
		cat, ok := Classify(c.ExpiryDate, today)
		if !ok {
			continue
		}
		c.Category = cat
		c.DaysUntilExpiry = dateutil.DaysBetween(today, c.ExpiryDate)
		summary.TotalClients++

		if _, dup := recent[notification.AttemptKey{ClientID: c.ClientID, Type: cat}]; dup {
			summary.Skipped++
			summary.ByType[cat].Skipped++
			continue
		}

		batch, exists := byAgent[c.AgentID]
		if !exists {
			batch = &agentBatch{
				agentID: c.AgentID,
				company: c.AgentCompany,
				email:   c.AgentEmail,
				cc:      c.AgentCC,
			}
			byAgent[c.AgentID] = batch
			order = append(order, batch)
		}
		batch.candidates = append(batch.candidates, c)
	}
	return order
}

// dispatch sends one agent's consolidated email and writes a per-client audit
// row for every outcome.
func (n *Notifier) dispatch(ctx context.Context, batch *agentBatch, today time.Time,
	summary *notification.RunSummary) {

	subject := fmt.Sprintf("Visa Expiry Reminder - %s", dateutil.Format(today))
	body := renderBody(batch, today)

	sendErr := n.sender.Send(batch.email, batch.cc, subject, body)

	status := notification.StatusSuccess
	var errMsg sql.NullString
	if sendErr != nil {
		status = notification.StatusFailed
		errMsg = sql.NullString{String: sendErr.Error(), Valid: true}
		n.logger.Warn("reminder email failed",
			zap.Int64("agent_id", batch.agentID),
			zap.String("agent_email", batch.email),
			zap.Error(sendErr))
	} else {
		summary.AgentsNotified++
	}

	for _, c := range batch.candidates {
		attempt := &notification.Attempt{
			ClientID:     c.ClientID,
			Type:         c.Category,
			Status:       status,
			ErrorMessage: errMsg,
		}
		if err := n.store.LogAttempt(ctx, attempt); err != nil {
			n.logger.Error("failed to log notification attempt",
				zap.Int64("client_id", c.ClientID),
				zap.String("type", string(c.Category)),
				zap.Error(err))
		}
		if sendErr != nil {
			summary.Failed++
			summary.ByType[c.Category].Failed++
		} else {
			summary.Succeeded++
			summary.ByType[c.Category].Succeeded++
		}
		summary.ByType[c.Category].Attempted++
	}
}

// renderBody builds the plain-text reminder, most urgent section first.
func renderBody(batch *agentBatch, today time.Time) string {
	grouped := make(map[notification.Category][]notification.Candidate)
	for _, c := range batch.candidates {
		grouped[c.Category] = append(grouped[c.Category], c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", batch.company)
	b.WriteString("The following sponsored clients need attention regarding their visa expiry dates:\n")

	for _, cat := range notification.UrgencyOrder {
		clients := grouped[cat]
		if len(clients) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", sectionTitles[cat])
		for _, c := range clients {
			fmt.Fprintf(&b, "  - %s %s (%s), expiry date %s (%s)\n",
				c.FirstName, c.LastName, c.VisaType,
				dateutil.Format(c.ExpiryDate), describeDays(c.DaysUntilExpiry))
		}
	}

	fmt.Fprintf(&b, "\nReport generated on %s.\n", dateutil.Format(today))
	b.WriteString("Please take the necessary action for each client listed above.\n")
	return b.String()
}

func describeDays(days int) string {
	switch {
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == 1:
		return "in 1 day"
	case days == 0:
		return "today"
	case days == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}
