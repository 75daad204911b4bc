package hxmarkup

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/hxmarkup/lib/filter"
	"github.com/pthm/hxmarkup/lib/markup"
)

// Label replaces its tag body with escaped text.
//
//	<span wicket:id="name">placeholder</span>
//
//	page.Add(hxmarkup.NewLabel("name", user.Name))
type Label struct {
	Base
	Text string
}

// NewLabel creates a label.
func NewLabel(id, text string) *Label {
	return &Label{Base: NewBase(id), Text: text}
}

// RenderBody implements BodyRenderer.
func (l *Label) RenderBody(rc *RenderContext, _ *markup.ComponentTag) error {
	_, err := io.WriteString(rc.Writer(), html.EscapeString(l.Text))
	return err
}

// Templ replaces its tag body with the output of a templ component.
type Templ struct {
	Base
	Body templ.Component
}

// NewTempl creates a Templ component.
func NewTempl(id string, body templ.Component) *Templ {
	return &Templ{Base: NewBase(id), Body: body}
}

// RenderBody implements BodyRenderer.
func (t *Templ) RenderBody(rc *RenderContext, _ *markup.ComponentTag) error {
	if t.Body == nil {
		return nil
	}
	return t.Body.Render(rc.Context(), rc.Writer())
}

// Item is one repetition of a Repeater. Its id is the item index.
type Item struct {
	MarkupContainer
	Index int
}

// Repeater renders its tag once per item. Populate adds the children of
// each Item before it is rendered.
//
//	<li wicket:id="rows"><span wicket:id="name"></span></li>
//
//	hxmarkup.NewRepeater("rows", users, func(item *hxmarkup.Item, u User) {
//	    item.Add(hxmarkup.NewLabel("name", u.Name))
//	})
type Repeater[T any] struct {
	MarkupContainer
	Items    []T
	Populate func(item *Item, v T)
}

// NewRepeater creates a repeater.
func NewRepeater[T any](id string, items []T, populate func(item *Item, v T)) *Repeater[T] {
	return &Repeater[T]{
		MarkupContainer: MarkupContainer{Base: NewBase(id)},
		Items:           items,
		Populate:        populate,
	}
}

// Render implements Renderer. Items are rebuilt on every render.
func (r *Repeater[T]) Render(rc *RenderContext, tag *markup.ComponentTag) error {
	r.RemoveAll()
	s := rc.Stream()
	if len(r.Items) == 0 {
		return s.SkipComponent()
	}
	start := s.Index()
	for i, v := range r.Items {
		item := &Item{MarkupContainer: MarkupContainer{Base: NewBase(strconv.Itoa(i))}, Index: i}
		r.Add(item)
		if r.Populate != nil {
			r.Populate(item, v)
		}
		s.SetIndex(start)
		if err := rc.RenderMarkup(item, tag); err != nil {
			return err
		}
	}
	return nil
}

// Panel is a container with its own template. The panel's tag body is
// replaced by the content of <wicket:panel> in that template, and its
// <wicket:head> sections are contributed to the page header.
type Panel struct {
	MarkupContainer
	// Template is the panel's template name, looked up with the page's
	// style and locale.
	Template string
}

// NewPanel creates a panel rendering template.
func NewPanel(id, template string, children ...Component) *Panel {
	p := &Panel{MarkupContainer: MarkupContainer{Base: NewBase(id)}, Template: template}
	p.Add(children...)
	return p
}

// RenderBody implements BodyRenderer.
func (p *Panel) RenderBody(rc *RenderContext, _ *markup.ComponentTag) error {
	m, err := rc.markup(p.Template)
	if err != nil {
		return err
	}
	i := findWicketTag(m, filter.TagPanel, "")
	if i < 0 {
		return fmt.Errorf("hxmarkup: %s: no <%s:panel> tag for panel %q", m.Resource(), m.Namespace(), Path(p))
	}
	return rc.within(m, i, func() error {
		return rc.renderTag(p, m.Get(i).(*markup.ComponentTag))
	})
}

// RenderHead implements HeaderContributor.
func (p *Panel) RenderHead(rc *RenderContext) error {
	m, err := rc.markup(p.Template)
	if err != nil {
		return err
	}
	for i := 0; i < m.Len(); i++ {
		tag, ok := m.Get(i).(*markup.ComponentTag)
		if !ok || !isWicketTag(tag, filter.TagHead) || tag.IsClose() {
			continue
		}
		if err := rc.within(m, i, func() error { return rc.renderTag(p, tag) }); err != nil {
			return err
		}
	}
	return nil
}

// Fragment renders a <wicket:fragment> definition from the markup being
// rendered in place of its own tag body.
//
//	<span wicket:id="slot"></span>
//	<wicket:fragment wicket:id="summary"><b wicket:id="count"></b></wicket:fragment>
//
//	page.Add(hxmarkup.NewFragment("slot", "summary", hxmarkup.NewLabel("count", "3")))
type Fragment struct {
	MarkupContainer
	// MarkupID is the id of the fragment definition.
	MarkupID string
}

// NewFragment creates a fragment.
func NewFragment(id, markupID string, children ...Component) *Fragment {
	f := &Fragment{MarkupContainer: MarkupContainer{Base: NewBase(id)}, MarkupID: markupID}
	f.Add(children...)
	return f
}

// RenderBody implements BodyRenderer.
func (f *Fragment) RenderBody(rc *RenderContext, _ *markup.ComponentTag) error {
	m := rc.Stream().Markup()
	i := findWicketTag(m, filter.TagFragment, f.MarkupID)
	if i < 0 {
		return fmt.Errorf("hxmarkup: %s: no fragment %q for %q", m.Resource(), f.MarkupID, Path(f))
	}
	def := m.Get(i).(*markup.ComponentTag)
	if def.IsOpenClose() {
		return nil
	}
	return rc.within(m, i+1, func() error {
		return rc.walk(f, def)
	})
}

// Page is the root of a component tree. It renders its whole template.
type Page struct {
	MarkupContainer
	Template string
	Style    string
	Locale   string
}

// NewPage creates a page for template.
func NewPage(template string, children ...Component) *Page {
	p := &Page{Template: template}
	p.Add(children...)
	return p
}

// transparent is a resolved auto component: it renders its markup and
// resolves the tags inside against the enclosing container.
type transparent struct {
	Base
	outer Container
}

func newTransparent(outer Container, tag *markup.ComponentTag) *transparent {
	return &transparent{Base: Base{id: tag.ID, parent: outer}, outer: outer}
}

func (t *transparent) Child(id string) Component {
	if t.outer == nil {
		return nil
	}
	return t.outer.Child(id)
}

func (t *transparent) Children() []Component { return nil }

func isWicketTag(tag *markup.ComponentTag, name string) bool {
	return tag.WicketTag && strings.EqualFold(tag.Name, name)
}

// findWicketTag returns the index of the first open tag in the reserved
// namespace named name, restricted to id when id is not empty.
func findWicketTag(m *markup.Markup, name, id string) int {
	for i := 0; i < m.Len(); i++ {
		tag, ok := m.Get(i).(*markup.ComponentTag)
		if !ok || tag.IsClose() || !isWicketTag(tag, name) {
			continue
		}
		if id == "" || tag.ID == id {
			return i
		}
	}
	return -1
}
