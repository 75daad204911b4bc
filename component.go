package hxmarkup

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// Base is embedded by every component. It carries the id, the parent link,
// visibility and attribute modifiers.
//
//	type Clock struct {
//	    hxmarkup.Base
//	}
//
//	clock := &Clock{Base: hxmarkup.NewBase("clock")}
type Base struct {
	id        string
	parent    Container
	hidden    bool
	modifiers []AttributeModifier
}

// NewBase returns a Base with the given id.
func NewBase(id string) Base {
	return Base{id: id}
}

func (b *Base) base() *Base { return b }

// ID returns the component id.
func (b *Base) ID() string { return b.id }

// Parent returns the container the component was added to, or nil.
func (b *Base) Parent() Container { return b.parent }

// IsVisible reports whether the component renders. Invisible components
// render nothing, not even their tag.
func (b *Base) IsVisible() bool { return !b.hidden }

// SetVisible changes visibility.
func (b *Base) SetVisible(visible bool) { b.hidden = !visible }

// Modify attaches attribute modifiers applied to the component's tag on
// every render.
func (b *Base) Modify(mods ...AttributeModifier) {
	b.modifiers = append(b.modifiers, mods...)
}

// Path returns the colon-separated id path of c from its page, e.g.
// "form:name". Pages and components with auto ids contribute no segment.
func Path(c Component) string {
	var parts []string
	for n := Component(c); n != nil; {
		if id := n.ID(); id != "" && !strings.HasPrefix(id, markup.AutoIDPrefix) {
			parts = append(parts, id)
		}
		p := n.Parent()
		if p == nil {
			break
		}
		n = p
	}
	slices.Reverse(parts)
	return strings.Join(parts, ":")
}

// Get resolves a colon-separated path relative to c.
func Get(c Container, path string) Component {
	var cur Component = c
	for _, id := range strings.Split(path, ":") {
		cont, ok := cur.(Container)
		if !ok {
			return nil
		}
		if cur = cont.Child(id); cur == nil {
			return nil
		}
	}
	return cur
}

// Visit calls fn for c and every visible descendant, parents first.
// Returning false from fn skips the component's children.
func Visit(c Component, fn func(Component) bool) {
	if !c.IsVisible() || !fn(c) {
		return
	}
	if cont, ok := c.(Container); ok {
		for _, child := range cont.Children() {
			Visit(child, fn)
		}
	}
}

// MarkupContainer is a component whose body is rendered from markup, with
// the component tags inside bound to its children.
type MarkupContainer struct {
	Base
	children []Component
}

// NewContainer creates a container holding children.
func NewContainer(id string, children ...Component) *MarkupContainer {
	c := &MarkupContainer{Base: NewBase(id)}
	c.Add(children...)
	return c
}

// Add appends children. Panics if a child has no id, already has a parent,
// or its id is taken.
func (c *MarkupContainer) Add(children ...Component) *MarkupContainer {
	for _, child := range children {
		b := child.base()
		if b.id == "" {
			panic(fmt.Sprintf("hxmarkup: %T added to %q has no id", child, Path(c)))
		}
		if b.parent != nil {
			panic(fmt.Sprintf("hxmarkup: %q already has a parent", Path(child)))
		}
		if c.Child(b.id) != nil {
			panic(fmt.Sprintf("hxmarkup: duplicate id %q in %q", b.id, Path(c)))
		}
		b.parent = c
		c.children = append(c.children, child)
	}
	return c
}

// Remove detaches the child with the given id. It reports whether a child
// was removed.
func (c *MarkupContainer) Remove(id string) bool {
	for i, child := range c.children {
		if child.ID() == id {
			child.base().parent = nil
			c.children = slices.Delete(c.children, i, i+1)
			return true
		}
	}
	return false
}

// RemoveAll detaches every child.
func (c *MarkupContainer) RemoveAll() {
	for _, child := range c.children {
		child.base().parent = nil
	}
	c.children = nil
}

// Child returns the direct child with the given id, or nil.
func (c *MarkupContainer) Child(id string) Component {
	for _, child := range c.children {
		if child.ID() == id {
			return child
		}
	}
	return nil
}

// Children returns the direct children in insertion order.
func (c *MarkupContainer) Children() []Component {
	return slices.Clone(c.children)
}

// AttributeModifier changes one attribute of a component's tag at render
// time.
type AttributeModifier struct {
	Name  string
	Value string
	// Separator joins Value to an existing value. Empty replaces it.
	Separator string
	// Remove deletes the attribute; Value is ignored.
	Remove bool
}

// SetAttr replaces the attribute value.
func SetAttr(name, value string) AttributeModifier {
	return AttributeModifier{Name: name, Value: value}
}

// AppendAttr appends to the attribute value, separated by a space, e.g. for
// "class".
func AppendAttr(name, value string) AttributeModifier {
	return AttributeModifier{Name: name, Value: value, Separator: " "}
}

// RemoveAttr deletes the attribute.
func RemoveAttr(name string) AttributeModifier {
	return AttributeModifier{Name: name, Remove: true}
}

// Apply modifies tag.
func (m AttributeModifier) Apply(tag *markup.ComponentTag) {
	switch {
	case m.Remove:
		tag.RemoveAttr(m.Name)
	case m.Separator != "":
		if old, ok := tag.Attrs.Lookup(m.Name); ok && old != "" {
			tag.Put(m.Name, old+m.Separator+m.Value)
			return
		}
		tag.Put(m.Name, m.Value)
	default:
		tag.Put(m.Name, m.Value)
	}
}
