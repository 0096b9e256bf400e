package expiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visatrack-service/internal/domain/notification"
	"visatrack-service/internal/pkg/dateutil"
)

type fakeStore struct {
	candidates []notification.Candidate
	recent     map[notification.AttemptKey]struct{}

	attempts []notification.Attempt
	stats    []notification.DailyStats

	listErr   error
	recentErr error
}

func (f *fakeStore) ListCandidates(ctx context.Context) ([]notification.Candidate, error) {
	return f.candidates, f.listErr
}

// RecentSuccesses mirrors the real query: seeded entries plus every success
// the store has logged so far.
func (f *fakeStore) RecentSuccesses(ctx context.Context, since time.Time) (map[notification.AttemptKey]struct{}, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	m := make(map[notification.AttemptKey]struct{}, len(f.recent))
	for k := range f.recent {
		m[k] = struct{}{}
	}
	for _, a := range f.attempts {
		if a.Status == notification.StatusSuccess {
			m[notification.AttemptKey{ClientID: a.ClientID, Type: a.Type}] = struct{}{}
		}
	}
	return m, nil
}

func (f *fakeStore) LogAttempt(ctx context.Context, a *notification.Attempt) error {
	f.attempts = append(f.attempts, *a)
	return nil
}

func (f *fakeStore) AddDailyStats(ctx context.Context, s *notification.DailyStats) error {
	f.stats = append(f.stats, *s)
	return nil
}

type sentMail struct {
	to      string
	cc      []string
	subject string
	body    string
}

type fakeSender struct {
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeSender) Send(to string, cc []string, subject, body string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, cc: cc, subject: subject, body: body})
	return nil
}

func candidate(clientID, agentID int64, agentEmail string, daysOut int) notification.Candidate {
	return notification.Candidate{
		ClientID:     clientID,
		FirstName:    fmt.Sprintf("Client%d", clientID),
		LastName:     "Test",
		VisaType:     "30 DAY",
		ExpiryDate:   dateutil.Today().AddDate(0, 0, daysOut),
		AgentID:      agentID,
		AgentCompany: fmt.Sprintf("Agency %d", agentID),
		AgentEmail:   agentEmail,
	}
}

func newTestNotifier(store *fakeStore, sender *fakeSender) *Notifier {
	return NewNotifier(store, sender, 24*time.Hour, zap.NewNop())
}

func TestRunOneEmailPerAgent(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "a@agency.com", 7),
		candidate(2, 10, "a@agency.com", 15),
		candidate(3, 20, "b@agency.com", 0),
	}}
	sender := &fakeSender{}

	summary, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "a@agency.com", sender.sent[0].to)
	assert.Equal(t, "b@agency.com", sender.sent[1].to)

	assert.Equal(t, 2, summary.TotalAgents)
	assert.Equal(t, 2, summary.AgentsNotified)
	assert.Equal(t, 3, summary.TotalClients)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)

	require.Len(t, store.attempts, 3)
	for _, a := range store.attempts {
		assert.Equal(t, notification.StatusSuccess, a.Status)
		assert.False(t, a.ErrorMessage.Valid)
	}
}

func TestRunSkipsClientsOutsideWindows(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "a@agency.com", 20),
		candidate(2, 10, "a@agency.com", -3),
	}}
	sender := &fakeSender{}

	summary, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, sender.sent)
	assert.Empty(t, store.attempts)
	assert.Equal(t, 0, summary.TotalClients)
	assert.Zero(t, summary.SuccessRate())
}

func TestRunDeduplicatesRecentSuccesses(t *testing.T) {
	store := &fakeStore{
		candidates: []notification.Candidate{
			candidate(1, 10, "a@agency.com", 7),
			candidate(2, 10, "a@agency.com", 0),
		},
		recent: map[notification.AttemptKey]struct{}{
			{ClientID: 1, Type: notification.CategoryWeekBefore}: {},
		},
	}
	sender := &fakeSender{}

	summary, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].body, "Client1")
	assert.Contains(t, sender.sent[0].body, "Client2")

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.ByType[notification.CategoryWeekBefore].Skipped)

	require.Len(t, store.attempts, 1)
	assert.Equal(t, int64(2), store.attempts[0].ClientID)
}

// A success in a different window never suppresses the next window's
// reminder for the same client.
func TestRunDedupIsPerCategory(t *testing.T) {
	store := &fakeStore{
		candidates: []notification.Candidate{
			candidate(1, 10, "a@agency.com", 7),
		},
		recent: map[notification.AttemptKey]struct{}{
			{ClientID: 1, Type: notification.Category15DaysBefore}: {},
		},
	}
	sender := &fakeSender{}

	summary, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
}

func TestRunNoEmailWhenAllDeduplicated(t *testing.T) {
	store := &fakeStore{
		candidates: []notification.Candidate{
			candidate(1, 10, "a@agency.com", 7),
		},
		recent: map[notification.AttemptKey]struct{}{
			{ClientID: 1, Type: notification.CategoryWeekBefore}: {},
		},
	}
	sender := &fakeSender{}

	summary, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, sender.sent)
	assert.Equal(t, 0, summary.TotalAgents)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunAgentFailureIsIsolated(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "down@agency.com", 7),
		candidate(2, 20, "up@agency.com", 0),
	}}
	sender := &fakeSender{failFor: map[string]error{
		"down@agency.com": errors.New("connection refused"),
	}}

	summary, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "up@agency.com", sender.sent[0].to)

	assert.Equal(t, 1, summary.AgentsNotified)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 50.0, summary.SuccessRate(), 0.001)

	require.Len(t, store.attempts, 2)
	byClient := map[int64]notification.Attempt{}
	for _, a := range store.attempts {
		byClient[a.ClientID] = a
	}
	assert.Equal(t, notification.StatusFailed, byClient[1].Status)
	assert.Equal(t, "connection refused", byClient[1].ErrorMessage.String)
	assert.Equal(t, notification.StatusSuccess, byClient[2].Status)
}

// Running twice within the dedup window sends nothing the second time.
func TestRunIdempotentWithinWindow(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "a@agency.com", 7),
		candidate(2, 20, "b@agency.com", 0),
	}}
	sender := &fakeSender{}
	n := newTestNotifier(store, sender)

	first, err := n.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Succeeded)

	second, err := n.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, sender.sent, 2)
}

// Failed attempts are not deduplicated, so the next run retries them.
func TestRunFailedAttemptNotDeduplicated(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "flaky@agency.com", 7),
	}}
	sender := &fakeSender{failFor: map[string]error{
		"flaky@agency.com": errors.New("timeout"),
	}}
	n := newTestNotifier(store, sender)

	_, err := n.Run(context.Background())
	require.NoError(t, err)

	// Second run: only successes feed the dedup set, which stays empty here.
	delete(sender.failFor, "flaky@agency.com")
	summary, err := n.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, sender.sent, 1)
}

func TestRunBodyOrdersSectionsByUrgency(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "a@agency.com", 30),
		candidate(2, 10, "a@agency.com", 0),
		candidate(3, 10, "a@agency.com", -7),
		candidate(4, 10, "a@agency.com", 15),
		candidate(5, 10, "a@agency.com", 7),
	}}
	sender := &fakeSender{}

	_, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	body := sender.sent[0].body
	positions := []int{
		strings.Index(body, "EXPIRING NOW"),
		strings.Index(body, "EXPIRED ONE WEEK AGO"),
		strings.Index(body, "EXPIRING IN ONE WEEK"),
		strings.Index(body, "EXPIRING IN 15 DAYS"),
		strings.Index(body, "EXPIRING IN ONE MONTH"),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "section %d missing", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "section %d out of order", i)
		}
	}
	assert.Contains(t, body, "Dear Agency 10")
}

func TestRunCarriesCCRecipients(t *testing.T) {
	c := candidate(1, 10, "a@agency.com", 7)
	c.AgentCC = []string{"ops@agency.com", "boss@agency.com"}
	store := &fakeStore{candidates: []notification.Candidate{c}}
	sender := &fakeSender{}

	_, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"ops@agency.com", "boss@agency.com"}, sender.sent[0].cc)
}

func TestRunRecordsDailyStats(t *testing.T) {
	store := &fakeStore{
		candidates: []notification.Candidate{
			candidate(1, 10, "a@agency.com", 7),
			candidate(2, 10, "a@agency.com", 0),
		},
		recent: map[notification.AttemptKey]struct{}{
			{ClientID: 2, Type: notification.CategoryOnExpiryDate}: {},
		},
	}
	sender := &fakeSender{}

	_, err := newTestNotifier(store, sender).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.stats, 1)
	s := store.stats[0]
	assert.Equal(t, 1, s.TotalAttempts)
	assert.Equal(t, 1, s.Successful)
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.True(t, s.Date.Equal(dateutil.Today()))
}

func TestRunPropagatesStoreErrors(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}

	_, err := newTestNotifier(store, &fakeSender{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list candidates")
}
