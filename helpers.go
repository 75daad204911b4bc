package hxmarkup

import (
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Combine it with Application.Component to serve a page
// from a handler that is not mounted on the application:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxmarkup.Render(w, r, app.Component(newHomePage(r)))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// RenderPage renders page with app, negotiating its locale from the
// request when the page has none. Errors go to app.OnError.
func RenderPage(w http.ResponseWriter, r *http.Request, app *Application, page *Page) {
	app.servePage(w, r, func(*http.Request) (*Page, error) { return page, nil })
}
