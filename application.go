package hxmarkup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/pthm/hxmarkup/lib/cache"
	"github.com/pthm/hxmarkup/lib/encoding"
	"github.com/pthm/hxmarkup/lib/filter"
	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/parser"
	"github.com/pthm/hxmarkup/lib/watch"
)

// PageFactory builds the component tree for one request.
type PageFactory func(r *http.Request) (*Page, error)

// Option configures an Application.
type Option func(*Application)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(a *Application) { a.settings = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) { a.logger = l }
}

// WithResolver adds resolvers consulted before the default ones.
func WithResolver(r ...Resolver) Option {
	return func(a *Application) { a.resolvers = append(a.resolvers, r...) }
}

// WithBundle preloads precompiled markup. Bundled templates are never
// reparsed or watched.
func WithBundle(b *encoding.Bundle) Option {
	return func(a *Application) { a.bundle = b }
}

// WithTagRegistry replaces the registry derived from the settings.
func WithTagRegistry(r *filter.TagRegistry) Option {
	return func(a *Application) { a.registry = r }
}

// WithFilter adds a stage to the filter chain of every parse.
func WithFilter(f parser.StageFactory) Option {
	return func(a *Application) { a.filters = append(a.filters, f) }
}

// Application loads, caches and renders templates and serves mounted pages.
type Application struct {
	settings  Settings
	logger    *slog.Logger
	registry  *filter.TagRegistry
	resolvers []Resolver
	filters   []parser.StageFactory
	bundle    *encoding.Bundle
	matcher   language.Matcher

	parser  *parser.Parser
	watcher *watch.Watcher
	cache   *cache.Cache

	mu    sync.RWMutex
	mux   *http.ServeMux
	pages map[string]PageFactory

	// OnError is called when a mounted page fails to build or render.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewApplication creates an application loading templates from fsys.
// Panics if the settings are invalid.
func NewApplication(fsys fs.FS, opts ...Option) *Application {
	a := &Application{
		settings: DefaultSettings(),
		mux:      http.NewServeMux(),
		pages:    make(map[string]PageFactory),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.settings.Validate(); err != nil {
		panic(err.Error())
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.registry == nil {
		a.registry = a.settings.TagRegistry()
	}
	a.resolvers = append(a.resolvers, DefaultResolvers()...)

	popts := a.settings.ParserOptions(a.registry, a.logger)
	popts.Filters = a.filters
	a.parser = parser.New(popts)

	if a.settings.WatchInterval > 0 {
		a.watcher = watch.New(a.settings.WatchInterval, a.logger)
	}
	var loc cache.Locator
	if fsys != nil {
		loc = locator.NewFS(fsys)
	}
	a.cache = cache.New(cache.Options{
		Parser:  a.parser,
		Locator: loc,
		Watcher: a.watcher,
		Logger:  a.logger,
	})
	if a.bundle != nil {
		for _, e := range a.bundle.Entries {
			a.cache.Preload(e.Key, e.Markup)
		}
		a.logger.Info("loaded markup bundle", slog.Int("templates", len(a.bundle.Entries)))
	}

	if len(a.settings.Locales) > 0 {
		tags := make([]language.Tag, 0, len(a.settings.Locales))
		for _, l := range a.settings.Locales {
			tags = append(tags, language.Make(l))
		}
		a.matcher = language.NewMatcher(tags)
	}

	// Default error handler
	a.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		if IsNotFound(err) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		a.logger.Error("render failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}

	return a
}

// Settings returns the application's settings.
func (a *Application) Settings() Settings { return a.settings }

// Cache returns the markup cache.
func (a *Application) Cache() *cache.Cache { return a.cache }

// Start polls templates for changes until ctx is done, when reloading is
// enabled. It returns immediately.
func (a *Application) Start(ctx context.Context) {
	if a.watcher == nil {
		return
	}
	a.logger.Info("watching templates", slog.Duration("interval", a.watcher.Interval()))
	go func() {
		_ = a.watcher.Run(ctx)
	}()
}

// Markup returns the parsed template for key.
func (a *Application) Markup(ctx context.Context, key locator.Key) (*markup.Markup, error) {
	if key.Extension == "" {
		key.Extension = a.settings.Extension
	}
	return a.cache.Get(ctx, key)
}

// Render writes page to w. Output is written as it is produced; render into
// a buffer to discard partial output on error.
func (a *Application) Render(ctx context.Context, w io.Writer, page *Page) error {
	m, err := a.Markup(ctx, locator.Key{Name: page.Template, Style: page.Style, Locale: page.Locale})
	if err != nil {
		return err
	}
	id := uuid.NewString()
	rc := &RenderContext{
		ctx:    ctx,
		w:      w,
		app:    a,
		page:   page,
		stream: markup.NewStream(m),
		id:     id,
		logger: a.logger.With(slog.String("render_id", id)),
	}
	if err := rc.walk(page, nil); err != nil {
		return err
	}
	rc.logger.Debug("rendered page", slog.String("resource", m.Resource()))
	return nil
}

// Component adapts page to templ.
func (a *Application) Component(page *Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return a.Render(ctx, w, page)
	})
}

// Mount serves the page built by factory at pattern.
// Panics if pattern is already mounted.
func (a *Application) Mount(pattern string, factory PageFactory) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.pages[pattern]; exists {
		panic(fmt.Sprintf("hxmarkup: pattern %q already mounted", pattern))
	}
	a.pages[pattern] = factory
	a.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		a.servePage(w, r, factory)
	})
}

// Handler returns the HTTP handler for mounted pages.
func (a *Application) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.RLock()
		mux := a.mux
		a.mu.RUnlock()
		mux.ServeHTTP(w, r)
	})
}

func (a *Application) servePage(w http.ResponseWriter, r *http.Request, factory PageFactory) {
	page, err := factory(r)
	if err != nil {
		a.OnError(w, r, err)
		return
	}
	if page.Locale == "" {
		page.Locale = a.NegotiateLocale(r)
	}

	var buf bytes.Buffer
	if err := a.Render(r.Context(), &buf, page); err != nil {
		a.OnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// NegotiateLocale picks the configured locale best matching the request's
// Accept-Language header. It returns "" when no locales are configured.
func (a *Application) NegotiateLocale(r *http.Request) string {
	if a.matcher == nil {
		return ""
	}
	_, i := language.MatchStrings(a.matcher, r.Header.Get("Accept-Language"))
	return a.settings.Locales[i]
}
