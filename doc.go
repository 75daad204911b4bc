// Package hxmarkup renders server-side HTML from templates bound to a tree
// of Go components.
//
// Templates are plain HTML. Tags that a component renders carry a
// wicket:id attribute, and a small set of tags in the wicket namespace
// control the template itself:
//
//	<html xmlns:wicket="http://wicket.apache.org">
//	<body>
//	  <h1 wicket:id="title">Title goes here</h1>
//	  <ul><li wicket:id="rows"><span wicket:id="name">Jane</span></li></ul>
//	  <wicket:remove><p>Preview-only content</p></wicket:remove>
//	</body>
//	</html>
//
// # Pipeline
//
// A template is tokenized (lib/xmlparser), passed through a chain of filters
// that identify component tags, balance HTML, drop remove regions, detect
// the namespace, infer enclosure children and add a <head> when missing
// (lib/filter), and assembled into an immutable Markup (lib/parser). Parsed
// markup is cached per template name, style and locale (lib/cache) and
// reloaded when the template file changes (lib/watch).
//
// Template errors are found at parse time and carry the template name, line
// and column. Nothing is guessed: an unterminated <wicket:remove> is an
// error, not an implicit close.
//
// # Components
//
// A page builds its component tree per request:
//
//	page := hxmarkup.NewPage("Home",
//	    hxmarkup.NewLabel("title", "Users"),
//	    hxmarkup.NewRepeater("rows", users, func(item *hxmarkup.Item, u User) {
//	        item.Add(hxmarkup.NewLabel("name", u.Name))
//	    }),
//	)
//
// Rendering walks the markup and binds every component tag to the child
// with the same id. A tag without a matching child is a *BindError naming
// the id and the container path; it is never skipped silently.
//
// Components embed Base (or MarkupContainer) and opt into behavior through
// interfaces: BodyRenderer replaces the tag body, TagModifier edits the tag,
// HeaderContributor adds to the page <head>, Renderer takes over entirely.
// Panel renders a template of its own, Fragment renders a
// <wicket:fragment> definition, Templ embeds a templ component.
//
// # Serving
//
//	app := hxmarkup.NewApplication(os.DirFS("templates"),
//	    hxmarkup.WithSettings(settings))
//	app.Start(ctx)
//	app.Mount("/", func(r *http.Request) (*hxmarkup.Page, error) {
//	    return newHomePage(r), nil
//	})
//	http.ListenAndServe(":8080", app.Handler())
//
// Run 'hxmarkup check ./...' in CI to validate every template, and
// 'hxmarkup generate ./...' to declare component ids as Go constants.
package hxmarkup
