package hxmarkup

import (
	"github.com/pthm/hxmarkup/lib/markup"
)

// Component is a node of the live component tree. A component is bound to
// the markup tag whose id equals its ID.
//
// Implementations embed Base (or a type built on it, such as
// MarkupContainer); the interface cannot be satisfied otherwise.
type Component interface {
	ID() string
	Parent() Container
	IsVisible() bool

	base() *Base
}

// Container is a component with children. The render walk resolves the
// component tags inside a container's markup against Child.
type Container interface {
	Component
	Child(id string) Component
	Children() []Component
}

// Renderer is implemented by components that take over rendering of their
// markup entirely, such as Repeater.
//
// Render is called with the stream positioned on the component's tag and
// must leave it positioned after the component's markup. Most
// implementations call RenderContext.RenderComponent one or more times.
type Renderer interface {
	Render(rc *RenderContext, tag *markup.ComponentTag) error
}

// BodyRenderer is implemented by components that synthesize their body.
// The body between the open and close tag in the markup is discarded.
//
//	func (c *Clock) RenderBody(rc *hxmarkup.RenderContext, tag *markup.ComponentTag) error {
//	    _, err := io.WriteString(rc.Writer(), time.Now().Format(time.Kitchen))
//	    return err
//	}
type BodyRenderer interface {
	RenderBody(rc *RenderContext, tag *markup.ComponentTag) error
}

// TagModifier is implemented by components that change their own tag
// before it is written. The tag is a clone owned by the current render.
type TagModifier interface {
	OnComponentTag(rc *RenderContext, tag *markup.ComponentTag)
}

// HeaderContributor is implemented by components that add markup to the
// page's <head>. Contributions are collected from every visible component
// of the page when the head section is rendered.
type HeaderContributor interface {
	RenderHead(rc *RenderContext) error
}

// Resolver creates components for tags that have no live counterpart, such
// as <wicket:panel> or the page's <head>. Resolvers are consulted in order
// when a container has no child for a tag id; the first one returning true
// wins.
type Resolver interface {
	Resolve(rc *RenderContext, container Container, tag *markup.ComponentTag) (Component, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(rc *RenderContext, container Container, tag *markup.ComponentTag) (Component, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(rc *RenderContext, container Container, tag *markup.ComponentTag) (Component, bool) {
	return f(rc, container, tag)
}
