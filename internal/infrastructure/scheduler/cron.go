package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// CronScheduler runs a job on a standard five-field cron expression.
// Overlapping ticks are skipped so runs never execute concurrently.
type CronScheduler struct {
	spec       string
	location   *time.Location
	runOnStart bool
	logger     *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	runCtx  context.Context
	halt    chan struct{}
	initial sync.WaitGroup
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler; a nil location means UTC.
func NewCronScheduler(spec string, loc *time.Location, runOnStart bool, log *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, location: loc, runOnStart: runOnStart, logger: log}
}

// Start registers the job and begins ticking until ctx is done or Stop is called.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil && c.runCtx.Err() == nil {
		return nil
	}

	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).
		Then(cron.FuncJob(func() { job(time.Now().In(c.location)) }))

	runner := cron.New(cron.WithLocation(c.location))
	if _, err := runner.AddJob(c.spec, wrapped); err != nil {
		return fmt.Errorf("add cron %q: %w", c.spec, err)
	}

	halt := make(chan struct{})
	c.cron, c.runCtx, c.halt = runner, ctx, halt
	runner.Start()
	if c.runOnStart {
		c.initial.Add(1)
		go func() {
			defer c.initial.Done()
			wrapped.Run()
		}()
	}
	c.debug("cron started", "spec", c.spec, "location", c.location.String())

	// A done ctx only halts ticking; Stop still owns waiting for the running job.
	go func() {
		select {
		case <-ctx.Done():
			runner.Stop()
			c.debug("cron halted by context")
		case <-halt:
		}
	}()

	return nil
}

// Stop halts the cron loop and waits for a running job, bounded by ctx.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner, halt := c.cron, c.halt
	c.cron, c.halt = nil, nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}
	close(halt)

	done := make(chan struct{})
	go func() {
		<-runner.Stop().Done()
		c.initial.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.debug("cron stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronScheduler) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
