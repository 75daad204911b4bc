// Package hxmarkupecho provides Echo framework integration for hxmarkup
// applications.
//
// Serve a page from an Echo route:
//
//	e := echo.New()
//	app := hxmarkup.NewApplication(os.DirFS("templates"))
//	e.GET("/", hxmarkupecho.Handler(app, newHomePage))
//
// Or forward a whole path to the pages mounted on the application:
//
//	g := e.Group("/app", authMiddleware)
//	hxmarkupecho.MountGroup(g, "/", app)
package hxmarkupecho

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/hxmarkup"
)

// Mount forwards every request under path to app.Handler().
//
//	app.Mount("/pages/home", homePage)
//	hxmarkupecho.Mount(e, "/pages/", app)
func Mount(e *echo.Echo, path string, app *hxmarkup.Application) {
	e.Any(path+"*", echo.WrapHandler(app.Handler()))
}

// MountGroup forwards requests under path in g to app.Handler(). The pages
// share the group's middleware (auth, logging, etc.).
func MountGroup(g *echo.Group, path string, app *hxmarkup.Application) {
	g.Any(path+"*", echo.WrapHandler(app.Handler()))
}

// Handler returns an Echo handler rendering the page built by factory.
func Handler(app *hxmarkup.Application, factory hxmarkup.PageFactory) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := factory(c.Request())
		if err != nil {
			return httpError(err)
		}
		return RenderPage(c, app, page)
	}
}

// RenderPage renders page into the Echo response. The page's locale is
// negotiated from the request when unset. Failures become *echo.HTTPError
// values carrying the original error, so Echo's error handler sees them.
func RenderPage(c echo.Context, app *hxmarkup.Application, page *hxmarkup.Page) error {
	if page.Locale == "" {
		page.Locale = app.NegotiateLocale(c.Request())
	}
	var buf bytes.Buffer
	if err := app.Render(c.Request().Context(), &buf, page); err != nil {
		return httpError(err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxmarkupecho.Render(c, app.Component(page))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}

func httpError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	if hxmarkup.IsNotFound(err) {
		code = http.StatusNotFound
	}
	return echo.NewHTTPError(code).SetInternal(err)
}
