package main

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// submDedupeWindow bounds how many eval uuids the duplicate guard remembers.
const submDedupeWindow = 4096

// dedupe remembers recently seen eval uuids in two rotating windows, keeping
// the guard's memory bounded on a long-running worker.
type dedupe struct {
	mu     sync.Mutex
	window int
	cur    mapset.Set[string]
	prev   mapset.Set[string]
}

func newDedupe(window int) *dedupe {
	return &dedupe{
		window: window,
		cur:    mapset.NewThreadUnsafeSet[string](),
		prev:   mapset.NewThreadUnsafeSet[string](),
	}
}

// Seen records id and reports whether it was already recorded in the current
// or previous window.
func (d *dedupe) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cur.Contains(id) || d.prev.Contains(id) {
		return true
	}
	d.cur.Add(id)
	if d.cur.Cardinality() >= d.window {
		d.prev = d.cur
		d.cur = mapset.NewThreadUnsafeSet[string]()
	}
	return false
}
