package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"FinanceHarvester/internal/notifier"
	"FinanceHarvester/internal/pipeline"
)

// RunFunc performs one pipeline run.
type RunFunc func(ctx context.Context) *pipeline.Summary

// Scheduler triggers pipeline runs on a cron schedule and on command.
type Scheduler struct {
	Cron     *cron.Cron
	Run      RunFunc
	Notifier *notifier.TelegramNotifier // nil disables notifications
	Logger   *zap.Logger
	Ctx      context.Context

	running sync.Mutex
	mu      sync.Mutex
	last    *pipeline.Summary
	entry   cron.EntryID
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, run RunFunc, tn *notifier.TelegramNotifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Run:      run,
		Notifier: tn,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// Register adds the run task under expr (six fields, seconds first).
func (s *Scheduler) Register(expr string) error {
	id, err := s.Cron.AddFunc(expr, func() { s.RunNow() })
	if err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	s.entry = id
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Time("next_run", s.Next()))
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// Next returns the time of the next scheduled run, or zero.
func (s *Scheduler) Next() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.Cron.Entry(s.entry).Next
}

// RunNow performs a run unless one is already in progress, and reports
// whether it ran.
func (s *Scheduler) RunNow() bool {
	if !s.running.TryLock() {
		s.Logger.Warn("previous run still in progress, skipping")
		return false
	}
	defer s.running.Unlock()

	s.Logger.Info("running scheduled harvest")
	sum := s.Run(s.Ctx)

	s.mu.Lock()
	s.last = sum
	s.mu.Unlock()

	s.trySend(notifier.FormatRunSummary(sum))
	return true
}

// Last returns the summary of the most recent run, or nil.
func (s *Scheduler) Last() *pipeline.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) busy() bool {
	if s.running.TryLock() {
		s.running.Unlock()
		return false
	}
	return true
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		if s.busy() {
			return "A run is already in progress"
		}
		go s.RunNow()
		return "Run started"
	case "/status":
		return notifier.FormatStatus(s.busy(), s.Last(), s.Next())
	default:
		return "Available commands:\n• /run start a harvest now\n• /status show the last run"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
