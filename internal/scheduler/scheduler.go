package scheduler

import (
	"sync"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/metrics"
	"github.com/rs/zerolog"
)

// Task 등록된 주기적 작업
type Task struct {
	Name      string
	Interval  time.Duration
	Handler   func(now time.Time) error
	LastRun   time.Time
	NextRun   time.Time
	RunCount  int64
	LastError error
}

// Scheduler in-process interval runner. Tasks run sequentially on one goroutine.
type Scheduler struct {
	tasks    []*Task
	mu       sync.RWMutex
	logger   zerolog.Logger
	tick     time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

// New creates a scheduler that checks for due tasks every tick
func New(logger zerolog.Logger, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Second
	}
	return &Scheduler{
		tasks:  make([]*Task, 0),
		logger: logger,
		tick:   tick,
		stop:   make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register 주기적 작업 등록
func (s *Scheduler) Register(name string, interval time.Duration, handler func(now time.Time) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
		NextRun:  s.now().Add(interval),
	})
	s.logger.Info().Str("task", name).Dur("interval", interval).Msg("scheduled task registered")
}

// Start 스케줄러 시작 (백그라운드 goroutine)
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.RunDue(s.now())
			}
		}
	}()
	s.logger.Info().Msg("scheduler started")
}

// Stop 스케줄러 중지. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		s.logger.Info().Msg("scheduler stopped")
	})
}

// RunDue runs every task whose NextRun is not after now
func (s *Scheduler) RunDue(now time.Time) {
	s.mu.RLock()
	tasks := make([]*Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.RUnlock()

	for _, task := range tasks {
		if now.Before(task.NextRun) {
			continue
		}

		err := task.Handler(now)
		outcome := "ok"
		if err != nil {
			outcome = "error"
			s.logger.Error().Err(err).Str("task", task.Name).Msg("scheduled task failed")
		}
		metrics.ScheduledTaskRuns.WithLabelValues(task.Name, outcome).Inc()

		s.mu.Lock()
		task.LastError = err
		task.LastRun = now
		task.NextRun = now.Add(task.Interval)
		task.RunCount++
		s.mu.Unlock()
	}
}

// TaskInfo 작업 정보 (모니터링용)
type TaskInfo struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	RunCount  int64     `json:"run_count"`
	LastError *string   `json:"last_error,omitempty"`
}

// Tasks snapshot of registered tasks
func (s *Scheduler) Tasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := TaskInfo{
			Name:     t.Name,
			Interval: t.Interval.String(),
			LastRun:  t.LastRun,
			NextRun:  t.NextRun,
			RunCount: t.RunCount,
		}
		if t.LastError != nil {
			msg := t.LastError.Error()
			info.LastError = &msg
		}
		result = append(result, info)
	}
	return result
}
