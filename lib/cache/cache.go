// Package cache keeps parsed markup per template key.
//
// Each key is built at most once at a time: the first caller locates and
// parses the template, later callers wait for that result. When a watcher
// is configured, a change to a template file evicts every key built from it
// and the next request parses the new version.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/parser"
	"github.com/pthm/hxmarkup/lib/watch"
)

// ErrMarkupNotFound is returned, and remembered, for keys without a
// template.
var ErrMarkupNotFound = errors.New("cache: markup not found")

// Locator finds the template for a key.
type Locator interface {
	Locate(key locator.Key) (locator.Resource, error)
}

// Options configures a Cache.
type Options struct {
	Parser  *parser.Parser
	Locator Locator
	// Watcher, if set, is told about every template the cache parses.
	Watcher *watch.Watcher
	Logger  *slog.Logger
}

type entry struct {
	ready  chan struct{}
	markup *markup.Markup
	err    error
}

// Cache is safe for concurrent use.
type Cache struct {
	parser  *parser.Parser
	locator Locator
	watcher *watch.Watcher
	logger  *slog.Logger

	mu        sync.Mutex
	entries   map[string]*entry
	resources map[string][]string // template name -> keys built from it
}

// New returns an empty cache.
func New(opts Options) *Cache {
	if opts.Parser == nil {
		opts.Parser = parser.New(parser.Options{Logger: opts.Logger})
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Cache{
		parser:    opts.Parser,
		locator:   opts.Locator,
		watcher:   opts.Watcher,
		logger:    opts.Logger,
		entries:   make(map[string]*entry),
		resources: make(map[string][]string),
	}
}

// Parser returns the parser used for cache misses.
func (c *Cache) Parser() *parser.Parser { return c.parser }

// Get returns the markup for key, parsing it on a miss. Waiting for another
// caller's parse is abandoned when ctx is done.
func (c *Cache) Get(ctx context.Context, key locator.Key) (*markup.Markup, error) {
	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		c.entries[k] = e
	}
	c.mu.Unlock()

	if !ok {
		c.build(key, k, e)
	}

	select {
	case <-e.ready:
		return e.markup, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) build(key locator.Key, k string, e *entry) {
	defer close(e.ready)

	if c.locator == nil {
		e.err = fmt.Errorf("%w: %s (no locator)", ErrMarkupNotFound, k)
		return
	}
	res, err := c.locator.Locate(key)
	if errors.Is(err, locator.ErrNotFound) {
		e.err = fmt.Errorf("%w: %s", ErrMarkupNotFound, k)
		c.logger.Debug("markup not found", slog.String("key", k))
		return
	}
	if err == nil {
		e.markup, err = c.parse(res)
	}
	if err != nil {
		e.err = err
		// Failures other than a missing template are retried on the next Get.
		c.mu.Lock()
		if c.entries[k] == e {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		c.track(res, "")
		return
	}
	c.track(res, k)
}

func (c *Cache) parse(res locator.Resource) (*markup.Markup, error) {
	f, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", res.Name, err)
	}
	defer f.Close()
	return c.parser.Parse(res.Name, f)
}

// track records that k was built from res and starts watching res. A
// broken template is watched too so fixing it is noticed.
func (c *Cache) track(res locator.Resource, k string) {
	if res.Name == "" {
		return
	}
	c.mu.Lock()
	keys, watched := c.resources[res.Name]
	if k != "" && !slices.Contains(keys, k) {
		keys = append(keys, k)
	}
	c.resources[res.Name] = keys
	c.mu.Unlock()

	if c.watcher != nil && !watched {
		c.watcher.Add(res.Name, res.ModTime, c.changed)
	}
}

func (c *Cache) changed(name string) {
	c.mu.Lock()
	keys := c.resources[name]
	delete(c.resources, name)
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()

	if c.watcher != nil {
		c.watcher.Remove(name)
	}
	c.logger.Info("markup changed, reloading on next request",
		slog.String("resource", name),
		slog.Any("keys", keys))
}

// Invalidate evicts key.
func (c *Cache) Invalidate(key locator.Key) {
	c.mu.Lock()
	delete(c.entries, key.String())
	c.mu.Unlock()
}

// Clear evicts everything and stops watching all templates.
func (c *Cache) Clear() {
	c.mu.Lock()
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}
	c.entries = make(map[string]*entry)
	c.resources = make(map[string][]string)
	c.mu.Unlock()

	if c.watcher != nil {
		for _, name := range names {
			c.watcher.Remove(name)
		}
	}
}

// Len returns the number of cached keys, including remembered misses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Preload stores m under key without parsing anything.
func (c *Cache) Preload(key locator.Key, m *markup.Markup) {
	e := &entry{ready: make(chan struct{}), markup: m}
	close(e.ready)
	c.mu.Lock()
	c.entries[key.String()] = e
	c.mu.Unlock()
}
