// Package daemon runs the scheduled workflows: a daily advocacy-letters run
// and a weekly summary tweet, with an HTTP surface for health and job
// status.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
)

// JobFunc is one scheduled unit of work. The returned summary is surfaced on
// the status endpoint.
type JobFunc func(ctx context.Context) (summary string, err error)

// JobStatus is the last observed state of one scheduled job.
type JobStatus struct {
	Name        string    `json:"name"`
	Schedule    string    `json:"schedule"`
	Runs        int       `json:"runs"`
	LastRun     time.Time `json:"last_run,omitzero"`
	LastOutcome string    `json:"last_outcome,omitempty"`
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	Uptime string       `json:"uptime"`
	Jobs   []*JobStatus `json:"jobs"`
}

// Daemon schedules jobs with cron and serves the health/status endpoints.
// Jobs on the same schedule run sequentially; HTTP is served concurrently.
type Daemon struct {
	cron      *cron.Cron
	server    *http.Server
	checker   *Checker
	logger    *slog.Logger
	startTime time.Time

	mu       sync.Mutex
	jobs     []*JobStatus
	jobFuncs map[string]JobFunc
	byName   map[string]*JobStatus
}

// New creates a daemon listening on addr, with the store behind the health
// check.
func New(addr string, pinger Pinger, version string, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Daemon{
		cron:      cron.New(),
		checker:   NewChecker(pinger, version),
		logger:    logger.With("component", "daemon"),
		startTime: time.Now(),
		jobFuncs:  make(map[string]JobFunc),
		byName:    make(map[string]*JobStatus),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Get("/health", d.checker.Handler())
	r.Get("/status", d.handleStatus)

	d.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return d
}

// AddJob registers a job on a cron schedule.
func (d *Daemon) AddJob(name, schedule string, fn JobFunc) error {
	status := &JobStatus{Name: name, Schedule: schedule}

	_, err := d.cron.AddFunc(schedule, func() {
		d.runJob(status, fn)
	})
	if err != nil {
		return fmt.Errorf("scheduling job %s: %w", name, err)
	}

	d.mu.Lock()
	d.jobs = append(d.jobs, status)
	d.jobFuncs[name] = fn
	d.byName[name] = status
	d.mu.Unlock()

	d.logger.Info("job scheduled", "job", name, "schedule", schedule)
	return nil
}

// RunNow executes a registered job immediately, outside its schedule.
func (d *Daemon) RunNow(name string) error {
	d.mu.Lock()
	status, ok := d.byName[name]
	fn := d.jobFuncs[name]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %s", name)
	}

	d.runJob(status, fn)
	return nil
}

func (d *Daemon) runJob(status *JobStatus, fn JobFunc) {
	log := d.logger.With("job", status.Name)
	log.Info("job starting")

	summary, err := fn(context.Background())

	d.mu.Lock()
	status.Runs++
	status.LastRun = time.Now().UTC()
	if err != nil {
		status.LastOutcome = "error: " + err.Error()
	} else {
		status.LastOutcome = summary
	}
	d.mu.Unlock()

	if err != nil {
		log.Error("job failed", "error", err)
		return
	}
	log.Info("job completed", "summary", summary)
}

// Start begins cron scheduling and serves HTTP until Shutdown. It returns
// when the HTTP listener stops.
func (d *Daemon) Start() error {
	d.cron.Start()
	d.logger.Info("daemon started", "addr", d.server.Addr)

	if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Server exposes the HTTP server so callers can manage its shutdown
// separately from the scheduler, e.g. as its own shutdown component.
func (d *Daemon) Server() *http.Server {
	return d.server
}

// Name identifies the scheduler as a shutdown component.
func (d *Daemon) Name() string {
	return "scheduler"
}

// Shutdown stops the cron scheduler and waits for a running job to finish.
// The HTTP server is shut down separately through Server.
func (d *Daemon) Shutdown(ctx context.Context) error {
	cronCtx := d.cron.Stop()
	select {
	case <-cronCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleStatus reports uptime and per-job state.
func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	jobs := make([]*JobStatus, len(d.jobs))
	for i, j := range d.jobs {
		copied := *j
		jobs[i] = &copied
	}
	d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{
		Uptime: time.Since(d.startTime).Round(time.Second).String(),
		Jobs:   jobs,
	})
}
