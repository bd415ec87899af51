// Package registry is a concurrency-safe, capacity- and TTL-bounded cache of
// live loggers keyed by Spec fingerprints. It guarantees at most one
// construction per fingerprint under concurrent callers, counts borrowed
// references so shared files are never closed out from under a live holder,
// and reclaims idle entries by TTL and least-recent use.
//
// The capacity limit is soft: admission never blocks. When every entry is
// referenced at capacity, construction proceeds anyway and the overrun is
// surfaced through Stats.Overflows until eviction catches up.
//
// Sweeps are opportunistic: a full TTL pass runs inside every 64th
// GetOrCreate call, and Sweep may be called directly. The registry runs no
// background goroutine and owns no timers.
package registry

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"golift.io/loggerr"
)

// Defaults used when Config fields are zero.
const (
	DefaultMaxEntries = 128
	DefaultTTL        = time.Hour
	sweepEvery        = 64 // GetOrCreate calls between opportunistic sweeps.
)

// Config is the data needed to create a new Registry.
type Config struct {
	MaxEntries int           // Soft cap on cached loggers. Default: DefaultMaxEntries.
	TTL        time.Duration // Idle duration before an entry is sweep-eligible. Negative disables. Default: DefaultTTL.
}

// Registry caches live loggers by fingerprint. Obtain one from New; the zero
// value is not usable. All methods are safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	entries    map[loggerr.Fingerprint]*entry
	group      singleflight.Group
	maxEntries int
	ttl        time.Duration
	calls      uint64
	overflows  uint64
}

// entry is one cached logger and its bookkeeping. Owned by the Registry;
// fields are guarded by the Registry mutex.
type entry struct {
	fp       loggerr.Fingerprint
	logger   *loggerr.Logger
	created  time.Time
	lastUsed time.Time
	refs     int
}

// Stats is an operational snapshot of the registry.
type Stats struct {
	Entries    int           // Cached loggers.
	MaxEntries int           // The configured soft cap.
	Referenced int           // Entries with at least one live borrow.
	OldestAge  time.Duration // Age of the oldest entry, by creation time.
	Overflows  uint64        // Times the soft cap was exceeded with no evictable entry.
}

// New returns an empty Registry with the given limits.
func New(config *Config) *Registry {
	reg := &Registry{
		entries:    make(map[loggerr.Fingerprint]*entry),
		maxEntries: DefaultMaxEntries,
		ttl:        DefaultTTL,
	}

	if config != nil {
		if config.MaxEntries > 0 {
			reg.maxEntries = config.MaxEntries
		}

		if config.TTL != 0 {
			reg.ttl = config.TTL
		}
	}

	return reg
}

// GetOrCreate returns a borrowed handle on the logger for this spec,
// constructing it if no live one exists. Concurrent callers with the same
// fingerprint share one construction and all receive the same instance. A
// construction failure propagates to every waiter and is not cached: the
// next call constructs again.
func (r *Registry) GetOrCreate(spec *loggerr.Spec) (*Handle, error) {
	if spec == nil {
		return nil, loggerr.ErrNilSpec
	}

	fp := spec.Fingerprint()
	r.maybeSweep()

	r.mu.Lock()
	if ent, ok := r.entries[fp]; ok {
		handle := r.borrowLocked(ent)
		r.mu.Unlock()

		return handle, nil
	}
	r.mu.Unlock()

	// Miss: construct once per fingerprint. The singleflight group keeps
	// concurrent misses on one fingerprint down to a single construction
	// while unrelated fingerprints proceed in parallel; the registry lock
	// is never held across the filesystem work in loggerr.New.
	value, err, _ := r.group.Do(fp.String(), func() (any, error) {
		r.mu.Lock()
		if ent, ok := r.entries[fp]; ok {
			r.mu.Unlock()

			return ent, nil
		}
		r.mu.Unlock()

		logger, err := loggerr.New(spec)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		ent := &entry{fp: fp, logger: logger, created: now, lastUsed: now}

		r.mu.Lock()
		r.entries[fp] = ent
		victims := r.evictOverflowLocked(ent)
		r.mu.Unlock()

		_ = closeAll(victims)

		return ent, nil
	})
	if err != nil {
		return nil, err
	}

	ent, _ := value.(*entry)

	r.mu.Lock()
	defer r.mu.Unlock()

	// The entry may have been force-evicted between construction and now;
	// the borrow still works, and a handle over an evicted entry degrades
	// to its console sink on write.
	return r.borrowLocked(ent), nil
}

// borrowLocked bumps the refcount and use time and wraps the entry.
func (r *Registry) borrowLocked(ent *entry) *Handle {
	ent.refs++
	ent.lastUsed = time.Now()

	return &Handle{reg: r, ent: ent}
}

// Touch marks the fingerprint as recently used, resetting its TTL countdown.
// Handles do this on every write; call it directly only if you hold a raw
// logger some other way.
func (r *Registry) Touch(fp loggerr.Fingerprint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ent, ok := r.entries[fp]; ok {
		ent.lastUsed = time.Now()
	}
}

// release returns one borrow. The entry stays cached for reuse; a zero
// refcount makes it eligible for TTL or overflow eviction, and an over-cap
// registry reclaims newly evictable entries right here rather than waiting
// for the next construction.
func (r *Registry) release(ent *entry) {
	r.mu.Lock()

	if ent.refs > 0 {
		ent.refs--
	}

	ent.lastUsed = time.Now()
	victims := r.evictOverflowLocked(nil)
	r.mu.Unlock()

	_ = closeAll(victims)
}

// Evict force-closes and removes the entry for a fingerprint, live borrows
// included: remaining holders degrade to their console sink. Evicting an
// absent fingerprint is a no-op.
func (r *Registry) Evict(fp loggerr.Fingerprint) error {
	r.mu.Lock()
	ent, ok := r.entries[fp]
	delete(r.entries, fp)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	return ent.logger.Close()
}

// EvictAll force-closes and removes every entry. Idempotent.
func (r *Registry) EvictAll() error {
	r.mu.Lock()
	victims := make([]*entry, 0, len(r.entries))

	for fp, ent := range r.entries {
		victims = append(victims, ent)
		delete(r.entries, fp)
	}
	r.mu.Unlock()

	return closeAll(victims)
}

// Sweep removes every TTL-expired, zero-reference entry and closes its
// logger, then reclaims any overflow beyond the soft cap. Returns how many
// entries were evicted. Referenced entries are always deferred, never forced.
func (r *Registry) Sweep() int {
	if r.ttl < 0 {
		return 0
	}

	now := time.Now()

	r.mu.Lock()
	var victims []*entry

	for fp, ent := range r.entries {
		if ent.refs == 0 && now.Sub(ent.lastUsed) > r.ttl {
			victims = append(victims, ent)
			delete(r.entries, fp)
		}
	}

	victims = append(victims, r.evictOverflowLocked(nil)...)
	r.mu.Unlock()

	_ = closeAll(victims)

	return len(victims)
}

// maybeSweep runs a full sweep on every sweepEvery-th call.
func (r *Registry) maybeSweep() {
	r.mu.Lock()
	r.calls++
	due := r.calls%sweepEvery == 0
	r.mu.Unlock()

	if due {
		r.Sweep()
	}
}

// evictOverflowLocked brings the registry back under the soft cap by
// removing least-recently-used zero-reference entries, ties broken by
// earliest creation. keep, when non-nil, is never chosen: a freshly
// constructed entry has no borrows yet and must not be evicted before its
// creator receives it. When everything else is referenced the cap stays
// exceeded and the overflow counter grows. Callers close the returned
// victims after dropping the registry lock.
func (r *Registry) evictOverflowLocked(keep *entry) []*entry {
	var victims []*entry

	for len(r.entries) > r.maxEntries {
		var victim *entry

		for _, ent := range r.entries {
			if ent.refs != 0 || ent == keep {
				continue
			}

			if victim == nil || ent.lastUsed.Before(victim.lastUsed) ||
				(ent.lastUsed.Equal(victim.lastUsed) && ent.created.Before(victim.created)) {
				victim = ent
			}
		}

		if victim == nil {
			r.overflows++

			break
		}

		delete(r.entries, victim.fp)
		victims = append(victims, victim)
	}

	return victims
}

// Stats returns an operational snapshot for introspection.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		Entries:    len(r.entries),
		MaxEntries: r.maxEntries,
		Overflows:  r.overflows,
	}

	now := time.Now()

	for _, ent := range r.entries {
		if ent.refs > 0 {
			stats.Referenced++
		}

		if age := now.Sub(ent.created); age > stats.OldestAge {
			stats.OldestAge = age
		}
	}

	return stats
}

// closeAll closes victim loggers outside the registry lock.
func closeAll(victims []*entry) error {
	var firstErr error

	for _, ent := range victims {
		if err := ent.logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
