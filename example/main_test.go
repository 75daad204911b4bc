package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm/hxmarkup"
)

func newTestApp() *hxmarkup.Application {
	settings := hxmarkup.DefaultSettings()
	settings.Locales = []string{"en", "de"}
	return newApp(NewStore(), settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIndex(t *testing.T) {
	h := newTestApp().Handler()

	result := hxmarkup.TestGet(h, "/")
	assert.True(t, result.IsOK())
	assert.True(t, result.HTMLContainsAll(
		"<title>Todos</title>",
		".done a { text-decoration: line-through; }",
		"nav a.active { font-weight: bold; }",
		`href="/task/todo-1"`,
		"Buy groceries",
		`<span wicket:id="tag" class="tag tag-personal">personal</span>`,
	), result.HTML)
	assert.False(t, result.HTMLContains("Nothing to do."))
}

func TestIndexFilter(t *testing.T) {
	h := newTestApp().Handler()

	result := hxmarkup.TestGet(h, "/?status=completed")
	assert.True(t, result.IsOK())
	assert.True(t, result.HTMLContainsAll(
		`<small wicket:id="filter">completed</small>`,
		"Nothing to do.",
	), result.HTML)
	assert.False(t, result.HTMLContains("<li"))
}

func TestTaskDetail(t *testing.T) {
	h := newTestApp().Handler()

	result := hxmarkup.TestGet(h, "/task/todo-2")
	assert.True(t, result.IsOK())
	assert.True(t, result.HTMLContainsAll(
		"Review PR #123",
		"Check the authentication changes",
		`<b wicket:id="status">pending</b>`,
		`<span wicket:id="tag">urgent</span>`,
	), result.HTML)

	result = hxmarkup.TestGet(h, "/task/nope")
	assert.True(t, result.HasStatus(http.StatusNotFound))
}

func TestGermanLocale(t *testing.T) {
	h := newTestApp().Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de")
	result := hxmarkup.TestRequest(h, req)
	assert.True(t, result.HTMLContains("<title>Aufgaben</title>"), result.HTML)
}
