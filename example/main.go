package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/pthm/hxmarkup"
	"github.com/pthm/hxmarkup/example/components"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	config := flag.String("config", "", "YAML settings file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	settings := hxmarkup.DefaultSettings()
	settings.Locales = []string{"en", "de"}
	if *config != "" {
		var err error
		if settings, err = hxmarkup.LoadSettingsFile(*config); err != nil {
			logger.Error("load settings", slog.Any("error", err))
			os.Exit(1)
		}
	}

	store := NewStore()
	app := newApp(store, settings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app.Start(ctx)

	srv := &http.Server{Addr: *addr, Handler: app.Handler()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("starting server", slog.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newApp(store *Store, settings hxmarkup.Settings, logger *slog.Logger) *hxmarkup.Application {
	app := hxmarkup.NewApplication(components.Templates,
		hxmarkup.WithSettings(settings),
		hxmarkup.WithLogger(logger),
	)
	app.Mount("GET /{$}", handleIndex(store))
	app.Mount("GET /task/{id}", handleTaskDetail(store))
	return app
}

func handleIndex(store *Store) hxmarkup.PageFactory {
	return func(r *http.Request) (*hxmarkup.Page, error) {
		// The filter lives in the URL.
		status := components.Status(r.URL.Query().Get("status"))
		filter := string(status)
		if filter == "" {
			filter = "all"
		}
		return hxmarkup.NewPage("TodoPage",
			components.NewSidebar("sidebar", store, status),
			hxmarkup.NewLabel("filter", filter),
			components.NewTodoList("list", store, status),
		), nil
	}
}

func handleTaskDetail(store *Store) hxmarkup.PageFactory {
	return func(r *http.Request) (*hxmarkup.Page, error) {
		todo := store.Get(r.PathValue("id"))
		if todo == nil {
			return nil, hxmarkup.ErrNotFound
		}
		desc := hxmarkup.NewLabel("description", todo.Description)
		desc.SetVisible(strings.TrimSpace(todo.Description) != "")

		task := hxmarkup.NewContainer("task",
			hxmarkup.NewLabel("title", todo.Title),
			desc,
			hxmarkup.NewLabel("status", string(todo.Status)),
			hxmarkup.NewRepeater("tags", todo.Tags, func(item *hxmarkup.Item, tag components.Tag) {
				item.Add(hxmarkup.NewLabel("tag", string(tag)))
			}),
		)
		if todo.Done() {
			task.Modify(hxmarkup.AppendAttr("class", "done"))
		}
		return hxmarkup.NewPage("TaskPage", task), nil
	}
}
