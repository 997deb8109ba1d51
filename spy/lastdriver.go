package spy

import (
	"sync/atomic"
	"time"
)

// lastDriver is a single-slot, last-write-wins cache of the most recent
// underlying driver resolved by any URL-carrying call. It backs the
// argument-less version and compliance queries, which have no URL to
// disambiguate with.
//
// The slot is lock-free and intentionally best-effort: when more than
// one database type is spied on concurrently, a reader may observe a
// driver stored by another goroutine's call. That staleness is harmless
// and documented on the accessors; nothing safety-critical reads it.
// The slot is never cleared once set.
type lastDriver struct {
	slot atomic.Pointer[lastEntry]
}

type lastEntry struct {
	d  Driver
	at time.Time
}

func (l *lastDriver) store(d Driver) {
	l.slot.Store(&lastEntry{d: d, at: time.Now()})
}

func (l *lastDriver) get() (Driver, time.Time, bool) {
	e := l.slot.Load()
	if e == nil {
		return nil, time.Time{}, false
	}
	return e.d, e.at, true
}
