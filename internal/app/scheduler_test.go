package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/transfa/bank-client/internal/config"
)

func newTestScheduler(statements StatementStore, cfg config.Config) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jobs := NewJobs(&bankStub{}, &ledgerStub{}, statements, nil, logger, cfg)
	return NewScheduler(jobs, logger, cfg)
}

func TestScheduler_StartRegistersJobs(t *testing.T) {
	cfg := config.Config{
		ReconcileJobSchedule:      "*/15 * * * *",
		StatementPurgeJobSchedule: "0 3 * * *",
	}

	s := newTestScheduler(&storeStub{}, cfg)
	if got := s.Start(); got != 2 {
		t.Fatalf("expected 2 scheduled jobs, got %d", got)
	}
	waitStopped(t, s)
}

func TestScheduler_SkipsPurgeWithoutStore(t *testing.T) {
	cfg := config.Config{
		ReconcileJobSchedule:      "*/15 * * * *",
		StatementPurgeJobSchedule: "0 3 * * *",
	}

	s := newTestScheduler(nil, cfg)
	if got := s.Start(); got != 1 {
		t.Fatalf("expected 1 scheduled job, got %d", got)
	}
	waitStopped(t, s)
}

func TestScheduler_InvalidScheduleIsSkipped(t *testing.T) {
	cfg := config.Config{
		ReconcileJobSchedule:      "every now and then",
		StatementPurgeJobSchedule: "0 3 * * *",
	}

	s := newTestScheduler(&storeStub{}, cfg)
	if got := s.Start(); got != 1 {
		t.Fatalf("expected only the valid job to be scheduled, got %d", got)
	}
	waitStopped(t, s)
}

func waitStopped(t *testing.T, s *Scheduler) {
	t.Helper()
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
