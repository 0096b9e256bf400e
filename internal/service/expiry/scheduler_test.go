package expiry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visatrack-service/internal/domain/notification"
	xerrors "visatrack-service/internal/pkg/errors"
)

func newTestScheduler(store *fakeStore, sender *fakeSender) *Scheduler {
	notifier := newTestNotifier(store, sender)
	archiver := NewArchiver(&fakeDB{tx: &fakeTx{}}, &fakeHistoryStore{}, zap.NewNop())
	return NewScheduler(notifier, archiver, 9, nil, zap.NewNop())
}

func TestNextRunSameDay(t *testing.T) {
	s := newTestScheduler(&fakeStore{}, &fakeSender{})

	now := time.Date(2026, time.March, 15, 8, 30, 0, 0, time.Local)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2026, time.March, 15, 9, 0, 0, 0, time.Local), next)
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	s := newTestScheduler(&fakeStore{}, &fakeSender{})

	now := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.Local)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2026, time.March, 16, 9, 0, 0, 0, time.Local), next)

	now = time.Date(2026, time.March, 15, 21, 45, 0, 0, time.Local)
	next = s.nextRun(now)
	assert.Equal(t, time.Date(2026, time.March, 16, 9, 0, 0, 0, time.Local), next)
}

func TestNextRunMonthBoundary(t *testing.T) {
	s := newTestScheduler(&fakeStore{}, &fakeSender{})

	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.Local)
	next := s.nextRun(now)
	assert.Equal(t, time.Date(2026, time.April, 1, 9, 0, 0, 0, time.Local), next)
}

func TestRunNowSendsReminders(t *testing.T) {
	store := &fakeStore{candidates: []notification.Candidate{
		candidate(1, 10, "a@agency.com", 7),
	}}
	sender := &fakeSender{}
	s := newTestScheduler(store, sender)

	summary, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Len(t, sender.sent, 1)
}

func TestRunNowRejectsConcurrentRun(t *testing.T) {
	s := newTestScheduler(&fakeStore{}, &fakeSender{})

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.RunNow(context.Background())
	require.ErrorIs(t, err, xerrors.ErrRunInProgress)

	_, err = s.ArchiveNow(context.Background())
	require.ErrorIs(t, err, xerrors.ErrRunInProgress)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(&fakeStore{}, &fakeSender{})
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
