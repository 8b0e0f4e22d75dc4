package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide counters. A nil *Collector is a valid no-op.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64

	loginsAccepted  atomic.Uint64
	loginsRejected  atomic.Uint64
	passcodesIssued atomic.Uint64
	verifySucceeded atomic.Uint64
	verifyFailed    atomic.Uint64
	guardRedirects  atomic.Uint64
	logouts         atomic.Uint64
	tabsPruned      atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) LoginAttempt(accepted bool) {
	if c == nil {
		return
	}
	if accepted {
		c.loginsAccepted.Add(1)
		c.passcodesIssued.Add(1)
		return
	}
	c.loginsRejected.Add(1)
}

func (c *Collector) VerifyAttempt(ok bool) {
	if c == nil {
		return
	}
	if ok {
		c.verifySucceeded.Add(1)
		return
	}
	c.verifyFailed.Add(1)
}

func (c *Collector) GuardRedirect() {
	if c == nil {
		return
	}
	c.guardRedirects.Add(1)
}

func (c *Collector) Logout() {
	if c == nil {
		return
	}
	c.logouts.Add(1)
}

func (c *Collector) TabsPruned(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.tabsPruned.Add(uint64(n))
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          c.errorRequests.Load(),
		"rateLimitedTotal":     c.rateLimited.Load(),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"loginsAcceptedTotal":  c.loginsAccepted.Load(),
		"loginsRejectedTotal":  c.loginsRejected.Load(),
		"passcodesIssuedTotal": c.passcodesIssued.Load(),
		"verifySucceededTotal": c.verifySucceeded.Load(),
		"verifyFailedTotal":    c.verifyFailed.Load(),
		"guardRedirectsTotal":  c.guardRedirects.Load(),
		"logoutsTotal":         c.logouts.Load(),
		"tabsPrunedTotal":      c.tabsPruned.Load(),
	}
}
