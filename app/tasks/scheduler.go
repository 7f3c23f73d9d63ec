package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DefaultSchedules runs the batch daily at 08:00 and every four hours.
var DefaultSchedules = []string{"0 8 * * *", "@every 4h"}

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	newTask   func() TaskInterface
	schedules []string
	cron      *cron.Cron
	running   sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewScheduler(newTask func() TaskInterface, schedules ...string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		newTask:   newTask,
		schedules: schedules,
		cron:      cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs the task once, then on every schedule.
func (s *Scheduler) Start() error {
	for _, spec := range s.schedules {
		if _, err := s.cron.AddFunc(spec, func() { s.trigger(spec) }); err != nil {
			return fmt.Errorf("failed to add schedule %q: %w", spec, err)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.trigger("startup")
	}()

	s.cron.Start()
	slog.Info("Scheduler started", "schedules", s.schedules)
	return nil
}

func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

// trigger executes a fresh task unless a previous one is still running.
func (s *Scheduler) trigger(source string) {
	if !s.running.TryLock() {
		slog.Warn("Previous run still in progress, skipping", "trigger", source)
		return
	}
	defer s.running.Unlock()
	defer recoverUnit("task", "trigger", source)

	if s.ctx.Err() != nil {
		return
	}

	task := s.newTask()
	task.Start()

	slog.Debug("Task started", "type", string(task.GetType()), "id", task.GetID(), "trigger", source)

	if err := task.Execute(s.ctx); err != nil {
		slog.Error("Task execution failed",
			"type", string(task.GetType()),
			"id", task.GetID(),
			"trigger", source,
			"duration", task.GetDuration(),
			"error", err)
	}
}
