package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/metrics"
)

const pollJobName = "derive-alerts"

type accountLister interface {
	ListOnboarded(ctx context.Context) ([]models.User, error)
}

type alertSource interface {
	Alerts(ctx context.Context, userID uuid.UUID) ([]Alert, error)
}

// PollerParams configure the notification poller.
type PollerParams struct {
	Logger   *logger.Logger
	Accounts accountLister
	Alerts   alertSource
	Lock     Lock
	Metrics  *metrics.PollerMetrics
	Interval time.Duration

	// Backoff for a failed pass. After MaxTries consecutive failures the pass
	// is abandoned until the next tick.
	BackoffBase time.Duration
	BackoffCap  time.Duration
	MaxTries    uint64
}

// Poller periodically derives every onboarded user's alert list. The derived
// counts feed metrics and logs; the API recomputes alerts on read, so the
// poller's job is surfacing aggregate health, not fan-out delivery.
type Poller struct {
	logg     *logger.Logger
	accounts accountLister
	alerts   alertSource
	lock     Lock
	metrics  *metrics.PollerMetrics
	interval time.Duration

	backoffBase time.Duration
	backoffCap  time.Duration
	maxTries    uint64
}

func NewPoller(params PollerParams) (*Poller, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("account lister required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert source required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	backoffBase := params.BackoffBase
	if backoffBase <= 0 {
		backoffBase = 30 * time.Second
	}
	backoffCap := params.BackoffCap
	if backoffCap < backoffBase {
		backoffCap = backoffBase
	}
	maxTries := params.MaxTries
	if maxTries == 0 {
		maxTries = 5
	}
	return &Poller{
		logg:        params.Logger,
		accounts:    params.Accounts,
		alerts:      params.Alerts,
		lock:        params.Lock,
		metrics:     params.Metrics,
		interval:    interval,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		maxTries:    maxTries,
	}, nil
}

// Run starts the polling loop until the context is canceled.
func (p *Poller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p.runWithRetry(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logg.Info(ctx, "notification poller context canceled")
			return ctx.Err()
		case <-ticker.C:
			p.runWithRetry(ctx)
		}
	}
}

// runWithRetry executes one pass, retrying transient failures with
// exponential backoff before giving up until the next tick.
func (p *Poller) runWithRetry(ctx context.Context) {
	backoff := retry.NewExponential(p.backoffBase)
	backoff = retry.WithCappedDuration(p.backoffCap, backoff)
	backoff = retry.WithMaxRetries(p.maxTries, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := p.runCycle(ctx); err != nil {
			p.logg.Warn(ctx, "polling pass failed; backing off")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		p.logg.Error(ctx, "polling pass abandoned until next tick", err)
	}
}

func (p *Poller) runCycle(ctx context.Context) error {
	locked, err := p.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		p.logg.Info(ctx, "another notifier instance is polling; skipping this pass")
		return nil
	}
	defer func() {
		if relErr := p.lock.Release(ctx); relErr != nil {
			p.logg.Error(ctx, "failed to release poll lock", relErr)
		}
	}()

	start := time.Now()
	total, err := p.deriveAll(ctx)
	duration := time.Since(start)
	p.metrics.ObserveDuration(pollJobName, duration)

	cycleCtx := p.logg.WithField(ctx, "duration_ms", duration.Milliseconds())
	if err != nil {
		p.metrics.IncFailure(pollJobName)
		p.logg.Error(cycleCtx, "polling pass failed", err)
		return err
	}

	p.metrics.IncSuccess(pollJobName)
	p.metrics.SetAlerts(pollJobName, total)
	cycleCtx = p.logg.WithField(cycleCtx, "alerts", total)
	p.logg.Info(cycleCtx, "polling pass complete")
	return nil
}

// deriveAll computes alerts for every onboarded user and returns the total
// alert count across them. A failing user does not stop the pass; the
// collected errors surface at the end so the cycle is still marked failed.
func (p *Poller) deriveAll(ctx context.Context) (int, error) {
	accounts, err := p.accounts.ListOnboarded(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	total := 0
	var errs []error
	for i := range accounts {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		alerts, err := p.alerts.Alerts(ctx, accounts[i].ID)
		if err != nil {
			userCtx := p.logg.WithUserID(ctx, accounts[i].ID.String())
			p.logg.Error(userCtx, "failed to derive alerts", err)
			errs = append(errs, fmt.Errorf("user %s: %w", accounts[i].ID, err))
			continue
		}
		total += len(alerts)
	}
	return total, multierr.Combine(errs...)
}
