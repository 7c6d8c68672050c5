package swapz

import (
	"sync"
	"sync/atomic"
)

// Invalidator receives a notification after every successful swap, once the
// new snapshot is visible to readers. Invalidation is a pure signal: it is
// synchronous, fire-and-forget, and idempotent — a redundant invalidation
// only costs recomputation on next use.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a plain function to the Invalidator interface.
type InvalidatorFunc func()

// Invalidate calls f.
func (f InvalidatorFunc) Invalidate() { f() }

// InterestCache memoizes per-call-site enablement decisions so the dispatch
// path can skip consulting the stage for sites it has already ruled on.
// Entries are keyed by any comparable site identity.
//
// The cache is epoch-based: Invalidate bumps the epoch, and entries written
// under an older epoch are recomputed lazily on next lookup. Nothing is
// evicted eagerly, so Invalidate is O(1) regardless of cache size.
type InterestCache struct {
	epoch   atomic.Uint64
	entries sync.Map // site key -> *interestEntry
}

type interestEntry struct {
	epoch   uint64
	enabled bool
}

// NewInterestCache creates an empty InterestCache.
func NewInterestCache() *InterestCache {
	return &InterestCache{}
}

// Epoch returns the current invalidation epoch. Capture it before loading
// the state a decision will derive from and pass it to EnabledAt; an
// invalidation landing between the two loads then leaves the stored entry
// already stale instead of masquerading as current.
func (ic *InterestCache) Epoch() uint64 {
	return ic.epoch.Load()
}

// Enabled returns the cached decision for site, computing and storing it if
// the site is unknown or its entry predates the current epoch. The epoch is
// captured here, immediately before compute runs; when the decision derives
// from state loaded earlier, capture the epoch first and use EnabledAt.
func (ic *InterestCache) Enabled(site any, compute func() bool) bool {
	return ic.EnabledAt(ic.epoch.Load(), site, compute)
}

// EnabledAt is Enabled with a caller-captured epoch. Cached entries are
// trusted only when stamped with the current epoch, but a recomputed
// decision is stored with the captured one — so a decision derived from
// state observed before an invalidation is recomputed on the next lookup
// rather than served until the one after.
func (ic *InterestCache) EnabledAt(epoch uint64, site any, compute func() bool) bool {
	if v, ok := ic.entries.Load(site); ok {
		e := v.(*interestEntry)
		if e.epoch == ic.epoch.Load() {
			return e.enabled
		}
	}

	enabled := compute()
	ic.entries.Store(site, &interestEntry{epoch: epoch, enabled: enabled})
	return enabled
}

// Invalidate marks every cached decision stale. Implements Invalidator.
func (ic *InterestCache) Invalidate() {
	ic.epoch.Add(1)
}
