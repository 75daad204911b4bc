package hxmarkupecho

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/hxmarkup"
)

func newApp() *hxmarkup.Application {
	return hxmarkup.NewTestApplication(map[string]string{
		"Home.html":   `<p wicket:id="msg">x</p>`,
		"Broken.html": `<p wicket:id="other">x</p>`,
	})
}

func homePage(r *http.Request) (*hxmarkup.Page, error) {
	return hxmarkup.NewPage("Home", hxmarkup.NewLabel("msg", "hi "+r.URL.Query().Get("n"))), nil
}

func serve(e *echo.Echo, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	e := echo.New()
	e.GET("/", Handler(newApp(), homePage))

	rec := serve(e, "/?n=bob")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got, want := rec.Body.String(), `<p wicket:id="msg">hi bob</p>`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if ct := rec.Header().Get("Content-Type"); ct != echo.MIMETextHTMLCharsetUTF8 {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandlerErrors(t *testing.T) {
	app := newApp()
	e := echo.New()
	e.GET("/missing", Handler(app, func(*http.Request) (*hxmarkup.Page, error) {
		return hxmarkup.NewPage("Nope"), nil
	}))
	e.GET("/broken", Handler(app, func(*http.Request) (*hxmarkup.Page, error) {
		return hxmarkup.NewPage("Broken"), nil
	}))
	e.GET("/factory", Handler(app, func(*http.Request) (*hxmarkup.Page, error) {
		return nil, errors.New("db down")
	}))

	tests := []struct {
		url  string
		want int
	}{
		{"/missing", http.StatusNotFound},
		{"/broken", http.StatusInternalServerError},
		{"/factory", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if rec := serve(e, tt.url); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMount(t *testing.T) {
	app := newApp()
	app.Mount("/pages/home", homePage)

	e := echo.New()
	Mount(e, "/pages/", app)

	if rec := serve(e, "/pages/home?n=x"); rec.Code != http.StatusOK || rec.Body.String() != `<p wicket:id="msg">hi x</p>` {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
	if rec := serve(e, "/pages/other"); rec.Code != http.StatusNotFound {
		t.Errorf("unmounted page status = %d, want 404", rec.Code)
	}
}

func TestMountGroup(t *testing.T) {
	app := newApp()
	app.Mount("/app/home", homePage)

	var hit bool
	e := echo.New()
	g := e.Group("/app", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hit = true
			return next(c)
		}
	})
	MountGroup(g, "/", app)

	if rec := serve(e, "/app/home"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !hit {
		t.Error("group middleware did not run")
	}
}

func TestRender(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return Render(c, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<b>ok</b>")
			return err
		}))
	})

	rec := serve(e, "/")
	if rec.Body.String() != "<b>ok</b>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
