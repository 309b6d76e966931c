package background

import (
	"context"
	"sync"
	"time"

	"pharmpal/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/gommon/log"
)

const expirySweepName = "expiry-alerts"

// JobScheduler runs the periodic background jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.ExpiryAlertService
	interval  time.Duration
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler that sweeps expiry alerts every interval.
func NewJobScheduler(alerts *jobs.ExpiryAlertService, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = time.Hour
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		interval:  interval,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Infof("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Infof("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.sweepExpiryAlerts, context.Background()),
		gocron.WithName(expirySweepName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobs[expirySweepName] = job
	js.mu.Unlock()
	log.Infof("Registered %d background jobs", len(js.jobs))
	return nil
}

func (js *JobScheduler) sweepExpiryAlerts(ctx context.Context) error {
	start := time.Now()
	affected, err := js.alerts.Sweep(ctx)
	if err != nil {
		log.Errorf("expiry alert sweep failed: %v", err)
		return err
	}
	log.Infof("expiry alert sweep done in %s, %d users with expiring stock", time.Since(start).Round(time.Millisecond), affected)
	return nil
}

// JobStatus lists the registered jobs with their next run.
func (js *JobScheduler) JobStatus() map[string]time.Time {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]time.Time, len(js.jobs))
	for name, job := range js.jobs {
		next, err := job.NextRun()
		if err != nil {
			continue
		}
		status[name] = next
	}
	return status
}
