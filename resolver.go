package hxmarkup

import (
	"strings"

	"github.com/pthm/hxmarkup/lib/filter"
	"github.com/pthm/hxmarkup/lib/markup"
)

// DefaultResolvers returns the resolvers every application starts with.
// They handle the tags the parser gives auto ids: <wicket:panel>,
// <wicket:container>, <wicket:head>, <wicket:enclosure> and the page's
// <head>.
func DefaultResolvers() []Resolver {
	return []Resolver{
		ResolverFunc(resolveTransparent),
		ResolverFunc(resolveEnclosure),
		ResolverFunc(resolveHeader),
	}
}

func resolveTransparent(_ *RenderContext, container Container, tag *markup.ComponentTag) (Component, bool) {
	if !tag.WicketTag || !strings.HasPrefix(tag.ID, markup.AutoIDPrefix) {
		return nil, false
	}
	switch strings.ToLower(tag.Name) {
	case filter.TagPanel, filter.TagContainer, filter.TagHead:
		return newTransparent(container, tag), true
	}
	return nil, false
}

func resolveEnclosure(_ *RenderContext, container Container, tag *markup.ComponentTag) (Component, bool) {
	if !isWicketTag(tag, filter.TagEnclosure) {
		return nil, false
	}
	return &enclosure{
		transparent: *newTransparent(container, tag),
		child:       tag.Attrs.Get(filter.ChildAttr),
	}, true
}

func resolveHeader(_ *RenderContext, container Container, tag *markup.ComponentTag) (Component, bool) {
	if tag.WicketTag || tag.ID != filter.HeaderID {
		return nil, false
	}
	return &headerSection{transparent: *newTransparent(container, tag)}, true
}

// enclosure renders only when the component named by its child attribute
// is visible.
type enclosure struct {
	transparent
	child string
}

func (e *enclosure) Render(rc *RenderContext, tag *markup.ComponentTag) error {
	var child Component
	if e.outer != nil {
		child = Get(e.outer, e.child)
	}
	if child == nil {
		return &BindError{
			ID:       e.child,
			Path:     Path(e),
			Resource: rc.Stream().Markup().Resource(),
			Tag:      tag.DebugString(),
			Err:      ErrComponentNotFound,
		}
	}
	if !child.IsVisible() {
		return rc.Stream().SkipComponent()
	}
	return rc.RenderMarkup(e, tag)
}

// headerSection renders <head> followed by the header contributions of the
// page's components.
type headerSection struct {
	transparent
}

func (h *headerSection) Render(rc *RenderContext, tag *markup.ComponentTag) error {
	s := rc.Stream()
	out := rc.componentTag(h, tag)
	if tag.IsOpenClose() {
		out.Kind = markup.Open
		out.Modified = true
	}
	if err := rc.writeTag(out, false); err != nil {
		return err
	}
	s.Next()
	if !tag.IsOpenClose() {
		if err := rc.walk(h, tag); err != nil {
			return err
		}
	}
	if err := rc.renderHeader(); err != nil {
		return err
	}
	if tag.IsOpenClose() {
		return rc.write("</" + out.QualifiedName() + ">")
	}
	closeTag, err := s.Tag()
	if err != nil {
		return err
	}
	s.Next()
	return rc.writeTag(closeTag, false)
}
