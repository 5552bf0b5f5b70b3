// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package watch

// Monitor is an ordered watch list.
type Monitor struct {
	list []Watchable
}

// NewMonitor returns a monitor watching items in order. Nil items are skipped.
func NewMonitor(items ...Watchable) *Monitor {
	m := &Monitor{}
	for _, it := range items {
		m.Watch(it)
	}
	return m
}

// Watch appends item to the watch list. Nil items are ignored.
func (m *Monitor) Watch(item Watchable) {
	if item == nil {
		return
	}
	m.list = append(m.list, item)
}

// Len returns the number of watched items.
func (m *Monitor) Len() int { return len(m.list) }

// CheckAndClear reports whether any watched item changed since the previous
// call. Every entry is queried, so all pending flags are cleared even after
// the first change is found.
func (m *Monitor) CheckAndClear() bool {
	changed := false
	for _, it := range m.list {
		if it.TakeChanged() {
			changed = true
		}
	}
	return changed
}
