package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/watch"
)

type countingLocator struct {
	*locator.FS
	calls atomic.Int32
	gate  chan struct{}
}

func (l *countingLocator) Locate(key locator.Key) (locator.Resource, error) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	return l.FS.Locate(key)
}

func TestGetParsesOnce(t *testing.T) {
	fsys := fstest.MapFS{"Home.html": {Data: []byte(`<p wicket:id="x">y</p>`)}}
	loc := &countingLocator{FS: locator.NewFS(fsys), gate: make(chan struct{})}
	c := New(Options{Locator: loc})

	const n = 8
	results := make([]*markup.Markup, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := c.Get(context.Background(), locator.Key{Name: "Home"})
			assert.NoError(t, err)
			results[i] = m
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(loc.gate)
	wg.Wait()

	assert.Equal(t, int32(1), loc.calls.Load())
	for _, m := range results {
		assert.Same(t, results[0], m)
	}
	assert.Equal(t, 1, c.Len())
}

func TestGetNotFoundIsRemembered(t *testing.T) {
	loc := &countingLocator{FS: locator.NewFS(fstest.MapFS{})}
	c := New(Options{Locator: loc})

	for range 2 {
		_, err := c.Get(context.Background(), locator.Key{Name: "Missing"})
		assert.ErrorIs(t, err, ErrMarkupNotFound)
	}
	assert.Equal(t, int32(1), loc.calls.Load())

	c.Invalidate(locator.Key{Name: "Missing"})
	_, _ = c.Get(context.Background(), locator.Key{Name: "Missing"})
	assert.Equal(t, int32(2), loc.calls.Load())
}

func TestGetParseErrorIsRetried(t *testing.T) {
	fsys := fstest.MapFS{"Bad.html": {Data: []byte(`<wicket:remove>`)}}
	loc := &countingLocator{FS: locator.NewFS(fsys)}
	c := New(Options{Locator: loc})

	_, err := c.Get(context.Background(), locator.Key{Name: "Bad"})
	require.Error(t, err)
	assert.True(t, markup.IsParseError(err))
	assert.Equal(t, 0, c.Len())

	fsys["Bad.html"] = &fstest.MapFile{Data: []byte(`ok`)}
	m, err := c.Get(context.Background(), locator.Key{Name: "Bad"})
	require.NoError(t, err)
	assert.Equal(t, "ok", m.Text())
}

func TestGetHonoursContext(t *testing.T) {
	fsys := fstest.MapFS{"Slow.html": {Data: []byte(`x`)}}
	loc := &countingLocator{FS: locator.NewFS(fsys), gate: make(chan struct{})}
	c := New(Options{Locator: loc})

	go func() { _, _ = c.Get(context.Background(), locator.Key{Name: "Slow"}) }()
	require.Eventually(t, func() bool { return loc.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, locator.Key{Name: "Slow"})
	assert.ErrorIs(t, err, context.Canceled)

	close(loc.gate)
}

func TestWatcherReload(t *testing.T) {
	fsys := fstest.MapFS{"Home.html": {Data: []byte(`v1`), ModTime: time.Unix(1, 0)}}
	w := watch.New(time.Hour, nil)
	c := New(Options{Locator: locator.NewFS(fsys), Watcher: w})
	ctx := context.Background()

	m, err := c.Get(ctx, locator.Key{Name: "Home"})
	require.NoError(t, err)
	assert.Equal(t, "v1", m.Text())
	_, err = c.Get(ctx, locator.Key{Name: "Home", Locale: "de"})
	require.NoError(t, err)
	assert.Equal(t, 1, w.Len(), "one watch per template file")

	fsys["Home.html"] = &fstest.MapFile{Data: []byte(`v2`), ModTime: time.Unix(2, 0)}
	assert.Equal(t, []string{"Home.html"}, w.Poll())
	assert.Equal(t, 0, c.Len(), "both keys built from the file are evicted")
	assert.Equal(t, 0, w.Len())

	m, err = c.Get(ctx, locator.Key{Name: "Home"})
	require.NoError(t, err)
	assert.Equal(t, "v2", m.Text())
}

func TestPreloadAndClear(t *testing.T) {
	c := New(Options{})
	m := markup.New(markup.Info{Resource: "bundle"}, []markup.Element{markup.RawText("x")})
	c.Preload(locator.Key{Name: "Home"}, m)

	got, err := c.Get(context.Background(), locator.Key{Name: "Home"})
	require.NoError(t, err)
	assert.Same(t, m, got)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, err = c.Get(context.Background(), locator.Key{Name: "Home"})
	assert.ErrorIs(t, err, ErrMarkupNotFound)
}
