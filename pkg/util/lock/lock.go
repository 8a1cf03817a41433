// Package lock provides named, per-resource locks with a bounded wait.
//
// A Table holds one entry per key. Entries are created on first use and
// dropped when the last holder or waiter goes away, so the table only grows
// with the number of resources being reconciled at the same time.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Key returns the lock name for a custom resource.
func Key(kind, namespace, name string) string {
	return "lock::" + namespace + "::" + kind + "::" + name
}

// TimeoutError is returned when a lock could not be acquired in time.
type TimeoutError struct {
	Key     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("failed to acquire lock %s within %s", e.Key, e.Timeout)
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Table is a set of named locks. The zero value is ready to use.
type Table struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewTable returns an empty lock table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// TryLock acquires the lock for key, waiting at most timeout. On success it
// returns a release func that must be called exactly once. On timeout it
// returns a *TimeoutError; if ctx ends first, ctx.Err() is returned.
func (t *Table) TryLock(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	e := t.acquireEntry(key)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		t.releaseEntry(key, e)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TimeoutError{Key: key, Timeout: timeout}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			t.releaseEntry(key, e)
		})
	}, nil
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Table) acquireEntry(key string) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entries == nil {
		t.entries = make(map[string]*entry)
	}
	e, ok := t.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		t.entries[key] = e
	}
	e.refs++
	return e
}

func (t *Table) releaseEntry(key string, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(t.entries, key)
	}
}
