package hxmarkup

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pthm/hxmarkup/lib/filter"
	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
)

// RenderContext is the state of one render pass. It is created per render
// and must not be retained.
type RenderContext struct {
	ctx    context.Context
	w      io.Writer
	app    *Application
	page   *Page
	stream *markup.Stream
	id     string
	logger *slog.Logger

	headerDone bool
}

// Context returns the request context.
func (rc *RenderContext) Context() context.Context { return rc.ctx }

// Writer returns the output.
func (rc *RenderContext) Writer() io.Writer { return rc.w }

// Stream returns the cursor over the markup being rendered.
func (rc *RenderContext) Stream() *markup.Stream { return rc.stream }

// App returns the application.
func (rc *RenderContext) App() *Application { return rc.app }

// Page returns the page being rendered.
func (rc *RenderContext) Page() *Page { return rc.page }

// RenderID identifies this render pass in logs.
func (rc *RenderContext) RenderID() string { return rc.id }

// Logger returns a logger tagged with the render id.
func (rc *RenderContext) Logger() *slog.Logger { return rc.logger }

func (rc *RenderContext) write(s string) error {
	_, err := io.WriteString(rc.w, s)
	return err
}

// markup loads a template with the page's style and locale.
func (rc *RenderContext) markup(name string) (*markup.Markup, error) {
	return rc.app.Markup(rc.ctx, locator.Key{
		Name:   name,
		Style:  rc.page.Style,
		Locale: rc.page.Locale,
	})
}

// within runs fn with the stream switched to m at index i.
func (rc *RenderContext) within(m *markup.Markup, i int, fn func() error) error {
	saved := rc.stream
	rc.stream = markup.NewStream(m)
	rc.stream.SetIndex(i)
	defer func() { rc.stream = saved }()
	return fn()
}

// walk renders elements until the close tag of open, or to the end of the
// markup when open is nil. Component tags are bound against owner.
func (rc *RenderContext) walk(owner Component, open *markup.ComponentTag) error {
	s := rc.stream
	for s.HasMore() {
		switch el := s.Get().(type) {
		case markup.RawText:
			if err := rc.write(string(el)); err != nil {
				return err
			}
			s.Next()
		case *markup.ComponentTag:
			if open != nil && el.Closes(open) {
				return nil
			}
			if el.IsClose() {
				return s.Errorf("unexpected close tag")
			}
			if err := rc.renderTag(owner, el); err != nil {
				return err
			}
		}
	}
	if open != nil {
		return s.Errorf("expected close tag for %s", open.DebugString())
	}
	return nil
}

// renderTag binds tag to a child of owner, or to a resolved auto component,
// and renders it.
func (rc *RenderContext) renderTag(owner Component, tag *markup.ComponentTag) error {
	if isWicketTag(tag, filter.TagFragment) {
		return rc.stream.SkipComponent()
	}

	container, _ := owner.(Container)
	var child Component
	if container != nil {
		child = container.Child(tag.ID)
	}
	if child == nil {
		for _, r := range rc.app.resolvers {
			if c, ok := r.Resolve(rc, container, tag); ok {
				child = c
				break
			}
		}
	}
	if child == nil {
		return &BindError{
			ID:       tag.ID,
			Path:     Path(owner),
			Resource: rc.stream.Markup().Resource(),
			Tag:      tag.DebugString(),
			Err:      ErrComponentNotFound,
		}
	}
	return rc.RenderComponent(child, tag)
}

// RenderComponent renders c at tag, the element under the cursor. When it
// returns the cursor is past the component's markup.
func (rc *RenderContext) RenderComponent(c Component, tag *markup.ComponentTag) error {
	if !c.IsVisible() {
		return rc.stream.SkipComponent()
	}
	if r, ok := c.(Renderer); ok {
		return r.Render(rc, tag)
	}
	return rc.RenderMarkup(c, tag)
}

// RenderMarkup renders the tag, body and close tag of c from the markup.
// The body is either synthesized by a BodyRenderer or walked with the tags
// inside bound to c's children.
func (rc *RenderContext) RenderMarkup(c Component, tag *markup.ComponentTag) error {
	s := rc.stream
	if !c.IsVisible() {
		return s.SkipComponent()
	}
	if tag.IsClose() {
		return s.Errorf("component %q bound to a close tag", Path(c))
	}

	out := rc.componentTag(c, tag)
	omit := rc.app.settings.StripWicketTags && tag.WicketTag
	body, hasBody := c.(BodyRenderer)

	if tag.IsOpenClose() {
		s.Next()
		if !hasBody {
			return rc.writeTag(out, omit)
		}
		out.Kind = markup.Open
		out.Modified = true
		if err := rc.writeTag(out, omit); err != nil {
			return err
		}
		if err := body.RenderBody(rc, tag); err != nil {
			return err
		}
		if omit {
			return nil
		}
		return rc.write("</" + out.QualifiedName() + ">")
	}

	if tag.NoCloseTag && hasBody {
		// Text after an unclosed tag is merged with the markup that follows
		// it, so there is no body to replace.
		return s.Errorf("component %q replaces its body but %s has no close tag", Path(c), tag.DebugString())
	}

	if err := rc.writeTag(out, omit); err != nil {
		return err
	}
	s.Next()
	if tag.NoCloseTag {
		return nil
	}

	if hasBody {
		if err := body.RenderBody(rc, tag); err != nil {
			return err
		}
		if err := s.SkipToMatchingClose(tag); err != nil {
			return err
		}
	} else if err := rc.walk(c, tag); err != nil {
		return err
	}

	closeTag, err := s.Tag()
	if err != nil {
		return err
	}
	s.Next()
	return rc.writeTag(closeTag, omit)
}

// componentTag returns the tag as it is written for c.
func (rc *RenderContext) componentTag(c Component, tag *markup.ComponentTag) *markup.ComponentTag {
	out := tag.Clone()
	if rc.app.settings.StripWicketTags {
		out.RemoveAttr(rc.stream.Markup().Namespace() + ":id")
	}
	if tm, ok := c.(TagModifier); ok {
		tm.OnComponentTag(rc, out)
	}
	for _, m := range c.base().modifiers {
		m.Apply(out)
	}
	return out
}

func (rc *RenderContext) writeTag(tag *markup.ComponentTag, omit bool) error {
	if omit {
		return nil
	}
	_, err := tag.WriteTo(rc.w)
	return err
}

// renderHeader writes the header contributions of every visible component
// of the page, once per render.
func (rc *RenderContext) renderHeader() error {
	if rc.headerDone {
		return nil
	}
	rc.headerDone = true
	var err error
	Visit(rc.page, func(c Component) bool {
		if err != nil {
			return false
		}
		if hc, ok := c.(HeaderContributor); ok {
			if herr := hc.RenderHead(rc); herr != nil {
				err = fmt.Errorf("hxmarkup: header contribution of %q: %w", Path(c), herr)
			}
		}
		return err == nil
	})
	return err
}
