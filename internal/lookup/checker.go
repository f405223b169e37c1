// Package lookup runs registration queries for a list of numbers, one at a
// time, with a fixed pause between queries.
package lookup

import (
	"context"
	"log/slog"
	"time"
)

// DefaultDelay is the pause after every query.
const DefaultDelay = 2 * time.Second

// Querier answers whether a number has an account. A non-empty response
// means the number is registered.
type Querier interface {
	QueryRegistration(ctx context.Context, number string) ([]string, error)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Checker. Zero values select the defaults.
type Options struct {
	Delay    time.Duration
	Reporter Reporter
	Logger   *slog.Logger
	Sleep    SleepFunc
}

// Checker queries numbers sequentially. Only one query is ever in flight.
type Checker struct {
	querier  Querier
	delay    time.Duration
	reporter Reporter
	logger   *slog.Logger
	sleep    SleepFunc
}

// NewChecker creates a Checker. A negative delay is treated as zero.
func NewChecker(q Querier, opts Options) *Checker {
	c := &Checker{
		querier:  q,
		delay:    opts.Delay,
		reporter: opts.Reporter,
		logger:   opts.Logger,
		sleep:    opts.Sleep,
	}
	if c.delay < 0 {
		c.delay = 0
	}
	if c.reporter == nil {
		c.reporter = NopReporter{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.sleep == nil {
		c.sleep = Sleep
	}
	return c
}

// Delay returns the pause applied after each query.
func (c *Checker) Delay() time.Duration {
	return c.delay
}

// Run queries every number in order and returns one result per number, in
// input order. A failed query is recorded as StatusError and the loop moves
// on. The delay follows every query, including the last one.
//
// The only error returned is ctx's, when it ends during a pause; the partial
// results are returned alongside it.
func (c *Checker) Run(ctx context.Context, numbers []string) ([]Result, error) {
	results := make([]Result, 0, len(numbers))
	total := len(numbers)
	c.reporter.Start(total)

	for i, number := range numbers {
		r := Result{Number: number, Status: c.check(ctx, number)}
		results = append(results, r)
		c.reporter.Result(i+1, total, r)

		if err := c.sleep(ctx, c.delay); err != nil {
			return results, err
		}
	}

	c.reporter.Done(Summarize(results))
	return results, nil
}

func (c *Checker) check(ctx context.Context, number string) Status {
	matches, err := c.querier.QueryRegistration(ctx, number)
	if err != nil {
		c.logger.Warn("registration query failed", "number", number, "error", err)
		return StatusError
	}
	if len(matches) == 0 {
		c.logger.Debug("number not registered", "number", number)
		return StatusNotRegistered
	}
	c.logger.Debug("number registered", "number", number, "matches", matches)
	return StatusRegistered
}

// Sleep waits for d using a timer, returning early with ctx.Err() if ctx
// ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
