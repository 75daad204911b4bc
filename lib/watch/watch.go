// Package watch polls template files for modification and notifies
// listeners when one changes or disappears.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the polling interval used when none is set.
const DefaultInterval = time.Second

// StatFunc returns the current modification time of a watched resource.
type StatFunc func() (time.Time, error)

// Listener is called with the name of a changed resource.
type Listener func(name string)

type entry struct {
	stat      StatFunc
	listeners []Listener
	modTime   time.Time
	missing   bool
}

// Watcher polls registered resources. All methods are safe for concurrent
// use; listeners run on the polling goroutine without any lock held.
type Watcher struct {
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// New returns a watcher polling every interval.
func New(interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		interval: interval,
		logger:   logger,
		entries:  make(map[string]*entry),
	}
}

// Interval returns the polling interval.
func (w *Watcher) Interval() time.Duration { return w.interval }

// Add watches name. Adding a name that is already watched only registers
// another listener.
func (w *Watcher) Add(name string, stat StatFunc, l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entries[name]; ok {
		e.listeners = append(e.listeners, l)
		return
	}
	e := &entry{stat: stat, listeners: []Listener{l}}
	e.modTime, e.missing = current(stat)
	w.entries[name] = e
}

// Remove stops watching name.
func (w *Watcher) Remove(name string) {
	w.mu.Lock()
	delete(w.entries, name)
	w.mu.Unlock()
}

// Len returns the number of watched resources.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Poll checks every resource once, notifies listeners of changed ones and
// returns their names.
func (w *Watcher) Poll() []string {
	type hit struct {
		name      string
		listeners []Listener
	}
	var hits []hit

	w.mu.Lock()
	for name, e := range w.entries {
		mod, missing := current(e.stat)
		if mod.Equal(e.modTime) && missing == e.missing {
			continue
		}
		e.modTime, e.missing = mod, missing
		hits = append(hits, hit{name: name, listeners: append([]Listener(nil), e.listeners...)})
	}
	w.mu.Unlock()

	names := make([]string, 0, len(hits))
	for _, h := range hits {
		w.logger.Debug("resource changed", slog.String("resource", h.name))
		for _, l := range h.listeners {
			l(h.name)
		}
		names = append(names, h.name)
	}
	return names
}

// Run polls until ctx is done and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll()
		}
	}
}

func current(stat StatFunc) (time.Time, bool) {
	t, err := stat()
	if err != nil {
		return time.Time{}, true
	}
	return t, false
}
