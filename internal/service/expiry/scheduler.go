// internal/service/expiry/scheduler.go
package expiry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"visatrack-service/internal/domain/client"
	"visatrack-service/internal/domain/notification"
	xerrors "visatrack-service/internal/pkg/errors"
	ws "visatrack-service/internal/websocket"
)

// Scheduler fires the daily expiry job at a fixed local hour: archival first,
// then the reminder run. A mutex serializes runs so a manual trigger and the
// timer can never overlap.
type Scheduler struct {
	notifier *Notifier
	archiver *Archiver
	hour     int
	feed     *ws.Hub
	logger   *zap.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewScheduler wires the daily job. feed may be nil when no operator feed is
// attached.
func NewScheduler(notifier *Notifier, archiver *Archiver, hour int, feed *ws.Hub, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		archiver: archiver,
		hour:     hour,
		feed:     feed,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the timer loop. Call Stop to shut it down.
func (s *Scheduler) Start() {
	go s.loop()
	s.logger.Info("daily expiry scheduler started", zap.Int("hour", s.hour))
}

// Stop terminates the timer loop and waits for it to exit. An in-flight run
// finishes on its own.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		wait := time.Until(s.nextRun(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			s.runDaily()
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next occurrence of the configured hour in local time,
// tomorrow if today's slot has already passed.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// runDaily executes the scheduled job. An archival failure is logged but does
// not suppress the reminder run; stale rows only mean a few extra clients in
// the expired buckets.
func (s *Scheduler) runDaily() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()

	if result, err := s.archiver.Archive(ctx); err != nil {
		s.logger.Error("scheduled archival failed", zap.Error(err))
	} else {
		s.announceArchive(result)
	}

	if summary, err := s.notifier.Run(ctx); err != nil {
		s.logger.Error("scheduled reminder run failed", zap.Error(err))
	} else {
		s.announceRun(summary)
	}
}

func (s *Scheduler) announceRun(summary *notification.RunSummary) {
	if s.feed != nil {
		s.feed.Broadcast(ws.EventRunCompleted, summary)
	}
}

func (s *Scheduler) announceArchive(result *client.ArchiveResult) {
	if s.feed == nil {
		return
	}
	if result.Inserted > 0 {
		s.feed.Broadcast(ws.EventClientsArchived, result)
	}
}

// RunNow triggers a reminder run outside the schedule. Returns
// ErrRunInProgress when another run holds the lock.
func (s *Scheduler) RunNow(ctx context.Context) (*notification.RunSummary, error) {
	if !s.mu.TryLock() {
		return nil, xerrors.ErrRunInProgress
	}
	defer s.mu.Unlock()

	summary, err := s.notifier.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.announceRun(summary)
	return summary, nil
}

// ArchiveNow triggers archival outside the schedule, under the same lock.
func (s *Scheduler) ArchiveNow(ctx context.Context) (*client.ArchiveResult, error) {
	if !s.mu.TryLock() {
		return nil, xerrors.ErrRunInProgress
	}
	defer s.mu.Unlock()

	result, err := s.archiver.Archive(ctx)
	if err != nil {
		return nil, err
	}
	s.announceArchive(result)
	return result, nil
}
