// Package store adapts a minimal in-process object index to the
// expiry core's collaborator interfaces (expiry.Locator,
// expiry.RefCounter). Storage domains (e.g. a vhost or tenant) each
// get their own LRU set; keys are resolved to cores through a single
// bounded lookup cache.
package store

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/varnishgo/expirelru/internal/expiry"
)

// Store owns one expiry.LRU per storage domain and a bounded index of
// recently Put keys to their *expiry.Core. The index is the only
// key-to-Core mapping: a key evicted from it once capacity is exceeded
// is no longer found by Lookup. Teardown — freeing the full
// object behind a Core once refcount hits zero — is intentionally left
// to the caller supplied via OnFree: this package only tracks which
// domain an OC belongs to, never the object storage layout itself.
type Store struct {
	mu      sync.Mutex
	domains map[string]*expiry.LRU
	owner   map[*expiry.Core]*expiry.LRU
	index   *lru.Cache[string, *expiry.Core]

	mailer  expiry.Mailer
	stats   expiry.StatsSink
	maxScan int

	// OnFree is called when an OC's reference count reaches zero.
	// Optional; nil means the caller doesn't need a teardown hook.
	OnFree func(oc *expiry.Core)
}

// New builds a Store with a bounded secondary index of the given
// capacity. maxScan is applied to every domain LRU created afterward;
// 0 means unbounded. Call SetMailer once the owning Actor exists,
// before any domain is used.
func New(indexCapacity int, maxScan int, stats expiry.StatsSink) *Store {
	idx, err := lru.New[string, *expiry.Core](indexCapacity)
	if err != nil {
		// Only returns an error for a non-positive size, which is a
		// caller bug, not a runtime condition.
		panic(fmt.Sprintf("store: bad index capacity: %v", err))
	}
	return &Store{
		domains: make(map[string]*expiry.LRU),
		owner:   make(map[*expiry.Core]*expiry.LRU),
		index:   idx,
		stats:   stats,
		maxScan: maxScan,
	}
}

// SetMailer wires the actor as the Mailer every domain LRU mails
// reclaimed objects to. Must be called before Domain is first used.
func (s *Store) SetMailer(m expiry.Mailer) {
	s.mu.Lock()
	s.mailer = m
	s.mu.Unlock()
}

// Domain returns the LRU set for name, creating it on first use.
func (s *Store) Domain(name string) *expiry.LRU {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.domains[name]
	if ok {
		return l
	}
	l = expiry.NewLRU(s.mailer, s, s.stats)
	l.MaxScan = s.maxScan
	s.domains[name] = l
	return l
}

// Put records that oc belongs to domain under key, for later Locate
// and key-based lookup via Lookup.
func (s *Store) Put(domain, key string, oc *expiry.Core) {
	l := s.Domain(domain)

	s.mu.Lock()
	s.owner[oc] = l
	s.mu.Unlock()

	s.index.Add(key, oc)
}

// Lookup resolves a previously Put key back to its Core, via the
// bounded secondary cache.
func (s *Store) Lookup(key string) (*expiry.Core, bool) {
	return s.index.Get(key)
}

// Locate implements expiry.Locator.
func (s *Store) Locate(oc *expiry.Core) *expiry.LRU {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.owner[oc]
	if !ok {
		panic("store: Locate called on an OC the store does not hold (never Put, or already freed)")
	}
	return l
}

// Ref implements expiry.RefCounter.
func (s *Store) Ref(oc *expiry.Core) {
	oc.IncRef()
}

// Deref implements expiry.RefCounter. When the count reaches zero the
// OC is dropped from the owner index and OnFree (if set) is invoked;
// actual object teardown remains the caller's responsibility.
func (s *Store) Deref(oc *expiry.Core) bool {
	n := oc.DecRef()
	if n < 0 {
		panic("store: refcount went negative")
	}
	if n != 0 {
		return false
	}

	s.mu.Lock()
	delete(s.owner, oc)
	s.mu.Unlock()

	if s.OnFree != nil {
		s.OnFree(oc)
	}
	return true
}
