package hxmarkup

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing/fstest"
)

// TestResult holds the result of rendering a page for testing.
//
// Provides convenience methods for asserting on HTML content, headers and
// status codes.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header
}

// NewTestApplication creates an application over in-memory templates keyed
// by file name:
//
//	app := hxmarkup.NewTestApplication(map[string]string{
//	    "Home.html": `<h1 wicket:id="title">x</h1>`,
//	})
func NewTestApplication(templates map[string]string, opts ...Option) *Application {
	fsys := fstest.MapFS{}
	for name, src := range templates {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return NewApplication(fsys, opts...)
}

// TestRender renders a page and returns testable output.
//
// Use this for unit tests of a component tree against its templates. No
// HTTP machinery is involved:
//
//	result, err := hxmarkup.TestRender(app, page)
//	if !result.HTMLContains("expected text") {
//	    t.Fatal("missing expected content")
//	}
func TestRender(app *Application, page *Page) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), app, page)
}

// TestRenderWithContext renders a page with a custom context.
func TestRenderWithContext(ctx context.Context, app *Application, page *Page) (*TestResult, error) {
	var buf bytes.Buffer
	if err := app.Render(ctx, &buf, page); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestGet simulates a GET request against a handler, typically
// app.Handler():
//
//	result := hxmarkup.TestGet(app.Handler(), "/home")
//	if !result.IsOK() {
//	    t.Fatalf("status %d", result.StatusCode)
//	}
func TestGet(h http.Handler, url string) *TestResult {
	return TestRequest(h, httptest.NewRequest(http.MethodGet, url, nil))
}

// TestRequest runs req against h.
func TestRequest(h http.Handler, req *http.Request) *TestResult {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}
