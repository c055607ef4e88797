package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"portfolio-content/internal/handler/http/respond"
)

// ErrUnknownJob is returned by Scheduler.Run for a name that was never added.
var ErrUnknownJob = errors.New("unknown job")

// errJobRunning is returned when a run is skipped because the previous one is still going.
var errJobRunning = errors.New("job already running")

// Job is one scheduled unit of work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// JobStatus describes the last runs of a job.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Running     bool       `json:"running"`
	Runs        int        `json:"runs"`
	Failures    int        `json:"failures"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}

type jobState struct {
	job     Job
	entry   cron.EntryID
	running sync.Mutex
	status  JobStatus
}

// Scheduler runs Jobs on their cron schedules. A job never overlaps with
// itself: a tick that arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	cfg     Config
	metrics *Metrics
	logger  *slog.Logger

	mu    sync.Mutex
	jobs  map[string]*jobState
	order []string
	ctx   context.Context
}

// NewScheduler creates a scheduler for cfg. m may be nil.
func NewScheduler(cfg Config, m *Metrics, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cl := cronLogger{logger}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		jobs:    make(map[string]*jobState),
		ctx:     context.Background(),
	}, nil
}

// Add registers job. Names must be unique.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("job needs a name and a run function")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("job %q already added", job.Name)
	}
	st := &jobState{job: job, status: JobStatus{Name: job.Name, Schedule: job.Schedule}}
	id, err := s.cron.AddFunc(job.Schedule, func() {
		_ = s.execute(s.baseContext(), st)
	})
	if err != nil {
		return fmt.Errorf("schedule job %q: %w", job.Name, err)
	}
	st.entry = id
	s.jobs[job.Name] = st
	s.order = append(s.order, job.Name)
	return nil
}

// Run executes the named job now and returns its error.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.Lock()
	st, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, st)
}

// Start starts the cron loop. Scheduled runs derive their context from ctx.
// With Config.RunOnStart every job runs once, in registration order, first.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	names := append([]string(nil), s.order...)
	s.mu.Unlock()

	if s.cfg.RunOnStart {
		for _, name := range names {
			if ctx.Err() != nil {
				break
			}
			_ = s.Run(ctx, name)
		}
	}
	s.cron.Start()
	s.logger.Info("worker scheduler started",
		slog.Int("jobs", len(names)),
		slog.String("timezone", s.cfg.Timezone))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("worker scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}

// Status returns the status of every job in registration order.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobStatus, 0, len(s.order))
	for _, name := range s.order {
		st := s.jobs[name]
		status := st.status
		if next := s.cron.Entry(st.entry).Next; !next.IsZero() {
			status.NextRun = &next
		}
		out = append(out, status)
	}
	return out
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) execute(ctx context.Context, st *jobState) (err error) {
	if !st.running.TryLock() {
		s.logger.Warn("worker job skipped, previous run still active", slog.String("job", st.job.Name))
		if s.metrics != nil {
			s.metrics.JobRunsTotal.WithLabelValues(st.job.Name, "skipped").Inc()
		}
		return errJobRunning
	}
	defer st.running.Unlock()

	start := time.Now()
	s.update(st, func(js *JobStatus) {
		js.Running = true
		js.LastRun = &start
	})

	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		s.finish(st, start, err)
	}()

	s.logger.Info("worker job started", slog.String("job", st.job.Name))
	return st.job.Run(ctx)
}

func (s *Scheduler) finish(st *jobState, start time.Time, err error) {
	elapsed := time.Since(start)
	status := "success"
	if err != nil {
		status = "failure"
	}
	if s.metrics != nil {
		s.metrics.recordRun(st.job.Name, status, elapsed.Seconds())
	}
	s.update(st, func(js *JobStatus) {
		js.Running = false
		js.Runs++
		if err != nil {
			js.Failures++
			js.LastError = respond.SanitizeError(err)
			return
		}
		end := start.Add(elapsed)
		js.LastSuccess = &end
		js.LastError = ""
	})

	if err != nil {
		s.logger.Error("worker job failed",
			slog.String("job", st.job.Name),
			slog.Duration("duration", elapsed),
			slog.String("error", respond.SanitizeError(err)))
		return
	}
	s.logger.Info("worker job completed",
		slog.String("job", st.job.Name),
		slog.Duration("duration", elapsed))
}

func (s *Scheduler) update(st *jobState, fn func(*JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&st.status)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
