package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Task is the unit of work a Refresher runs.
type Task func(ctx context.Context) error

// RefresherConfig configures retry behaviour.
type RefresherConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Refresher runs a task in the background on demand. Triggers that arrive while a
// run is pending collapse into that run.
type Refresher struct {
	name       string
	task       Task
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	logger     *zap.Logger

	pending chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool

	runs     uint64
	failures uint64
}

// NewRefresher builds a refresher for task.
func NewRefresher(name string, task Task, cfg RefresherConfig) *Refresher {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Refresher{
		name:       name,
		task:       task,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
		pending:    make(chan struct{}, 1),
	}
}

// Start launches the worker. Safe to call once.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.worker()
	r.started = true
	r.logger.Sugar().Infow("refresher started", "refresher", r.name)
}

// Stop cancels the worker and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Sugar().Infow("refresher stopped", "refresher", r.name)
}

// Trigger requests a run. It reports false when a run was already pending.
func (r *Refresher) Trigger() bool {
	select {
	case r.pending <- struct{}{}:
		return true
	default:
		return false
	}
}

// Runs returns the number of completed runs, successful or not.
func (r *Refresher) Runs() uint64 {
	return atomic.LoadUint64(&r.runs)
}

// Failures returns the number of runs that exhausted their retries.
func (r *Refresher) Failures() uint64 {
	return atomic.LoadUint64(&r.failures)
}

func (r *Refresher) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.pending:
			r.run()
		}
	}
}

func (r *Refresher) run() {
	defer atomic.AddUint64(&r.runs, 1)
	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		err := r.task(ctx)
		cancel()
		if err == nil {
			return
		}
		if attempt >= r.maxRetries || r.ctx.Err() != nil {
			atomic.AddUint64(&r.failures, 1)
			r.logger.Sugar().Errorw("refresh failed", "refresher", r.name, "attempts", attempt+1, "error", err)
			return
		}
		r.logger.Sugar().Warnw("refresh failed, retrying", "refresher", r.name, "attempt", attempt+1, "error", err)

		timer := time.NewTimer(r.retryDelay)
		select {
		case <-r.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
