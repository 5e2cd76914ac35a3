package rotation

import (
	"fmt"
	"time"

	"wallshift/internal/models"
	"wallshift/internal/providers"
	"wallshift/internal/statefile"
)

// Policy describes one source's request budget. Effective allowance is
// Quota minus SafetyMargin; the margin keeps a few requests in reserve so
// a clock skew never trips the remote's authoritative limit.
type Policy struct {
	Quota        uint32
	SafetyMargin uint32
	Window       time.Duration
}

func (p Policy) Effective() uint32 {
	if p.SafetyMargin >= p.Quota {
		return 0
	}
	return p.Quota - p.SafetyMargin
}

// DefaultPolicies mirrors the published limits of each provider. Spotlight
// has no documented limit and carries no policy.
var DefaultPolicies = map[string]Policy{
	models.SourceUnsplash:  {Quota: 50, SafetyMargin: 5, Window: time.Hour},
	models.SourceWallhaven: {Quota: 45, SafetyMargin: 5, Window: time.Minute},
	models.SourcePexels:    {Quota: 200, SafetyMargin: 10, Window: time.Hour},
}

// CooldownError rejects a request that would exceed the local budget.
type CooldownError struct {
	Source    string
	Used      uint32
	Quota     uint32
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf(
		"%s rate limit cooldown: %d/%d requests used, window resets in %s",
		e.Source, e.Used, e.Quota, e.Remaining.Round(time.Second),
	)
}

// RateLimiterInterface gates requests against each source's rolling window.
// CheckAndReserve only gates; the caller commits the count after the
// request actually succeeded. The window is advisory; remote 429/403
// responses are still surfaced as fetch failures by the adapters.
type RateLimiterInterface interface {
	CheckAndReserve(source string) error
	Commit(source string) error
	Reconcile(source string, used uint32) error
	Usage(source string) (used, allowed uint32, reset time.Duration, limited bool)
}

type RateLimiter struct {
	store    statefile.StoreInterface
	policies map[string]Policy
	logger   providers.Logger
	now      func() time.Time
}

func NewRateLimiter(store statefile.StoreInterface, logger providers.Logger) RateLimiterInterface {
	return &RateLimiter{
		store:    store,
		policies: DefaultPolicies,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *RateLimiter) CheckAndReserve(source string) error {
	pol, ok := r.policies[source]
	if !ok {
		return nil
	}

	ss := r.store.State().SourceFor(source)
	now := r.now()

	// A counter above the theoretical maximum means the state file was
	// tampered with or corrupted. Clamp and continue rather than trust it.
	if ss.RequestsInWindow > pol.Quota {
		r.logger.Warnf(providers.TypeState,
			"%s request counter %d exceeds quota %d, resetting window",
			source, ss.RequestsInWindow, pol.Quota)
		ss.RequestsInWindow = 0
		ss.WindowStart = &now
		return r.store.Save()
	}

	if ss.WindowStart == nil {
		ss.RequestsInWindow = 0
		ss.WindowStart = &now
		return r.store.Save()
	}

	if now.Sub(*ss.WindowStart) >= pol.Window {
		ss.RequestsInWindow = 0
		ss.WindowStart = &now
		return r.store.Save()
	}

	if ss.RequestsInWindow >= pol.Effective() {
		return &CooldownError{
			Source:    source,
			Used:      ss.RequestsInWindow,
			Quota:     pol.Quota,
			Remaining: pol.Window - now.Sub(*ss.WindowStart),
		}
	}

	return nil
}

// Commit records one performed request. Call only after the request
// actually went out and succeeded.
func (r *RateLimiter) Commit(source string) error {
	if _, ok := r.policies[source]; !ok {
		return nil
	}

	ss := r.store.State().SourceFor(source)
	if ss.WindowStart == nil {
		now := r.now()
		ss.WindowStart = &now
	}
	ss.RequestsInWindow++
	return r.store.Save()
}

// Reconcile overwrites the local counter with the provider's authoritative
// usage figure, clamped to the quota.
func (r *RateLimiter) Reconcile(source string, used uint32) error {
	pol, ok := r.policies[source]
	if !ok {
		return nil
	}

	ss := r.store.State().SourceFor(source)
	if used > pol.Quota {
		used = pol.Quota
	}
	ss.RequestsInWindow = used
	if ss.WindowStart == nil {
		now := r.now()
		ss.WindowStart = &now
	}
	return r.store.Save()
}

// Usage reports the current window for status displays. limited is false
// for sources without a policy.
func (r *RateLimiter) Usage(source string) (uint32, uint32, time.Duration, bool) {
	pol, ok := r.policies[source]
	if !ok {
		return 0, 0, 0, false
	}

	ss := r.store.State().SourceFor(source)
	var reset time.Duration
	if ss.WindowStart != nil {
		if elapsed := r.now().Sub(*ss.WindowStart); elapsed < pol.Window {
			reset = pol.Window - elapsed
		}
	}
	return ss.RequestsInWindow, pol.Effective(), reset, true
}
