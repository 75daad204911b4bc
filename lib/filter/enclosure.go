package filter

import (
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// ChildAttr names the component an enclosure follows.
const ChildAttr = "child"

type enclosureFrame struct {
	tag   *markup.ComponentTag
	child string
	// open component tags inside the enclosure still waiting for a close tag
	open []*markup.ComponentTag
}

// EnclosureHandler fills in the child attribute of <wicket:enclosure> when
// the enclosure wraps exactly one top-level component.
type EnclosureHandler struct {
	stack []*enclosureFrame
}

// NewEnclosureHandler returns an EnclosureHandler for one parse.
func NewEnclosureHandler() *EnclosureHandler { return &EnclosureHandler{} }

// NextTag implements Filter.
func (f *EnclosureHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	tag, err := parent.NextTag()
	if err != nil {
		return nil, err
	}

	if tag.WicketTag && strings.EqualFold(tag.Name, TagEnclosure) {
		switch tag.Kind {
		case markup.Open:
			f.stack = append(f.stack, &enclosureFrame{tag: tag})
		case markup.OpenClose:
			return nil, markup.NewParseError(markup.ErrEnclosure, tag, "enclosure must not be an open-close tag")
		case markup.Close:
			if len(f.stack) == 0 {
				return tag, nil
			}
			top := f.stack[len(f.stack)-1]
			f.stack = f.stack[:len(f.stack)-1]
			if !top.tag.Attrs.Has(ChildAttr) {
				if top.child == "" {
					return nil, markup.NewParseError(markup.ErrEnclosure, top.tag,
						"enclosure does not contain a component; add a child attribute")
				}
				top.tag.Put(ChildAttr, top.child)
			}
		}
		return tag, nil
	}

	// Auto ids belong to namespace tags the render resolves itself; they
	// never name the child.
	if len(f.stack) == 0 || tag.ID == "" || strings.HasPrefix(tag.ID, markup.AutoIDPrefix) {
		return tag, nil
	}
	top := f.stack[len(f.stack)-1]
	top.prune()
	switch {
	case tag.IsClose():
		for i := len(top.open) - 1; i >= 0; i-- {
			if top.open[i] == tag.OpenTag {
				top.open = top.open[:i]
				break
			}
		}
	default:
		if len(top.open) == 0 && !top.tag.Attrs.Has(ChildAttr) {
			if top.child != "" {
				return nil, markup.NewParseError(markup.ErrEnclosure, top.tag,
					"enclosure has more than one child component (%s, %s); use the child attribute", top.child, tag.ID)
			}
			top.child = tag.ID
		}
		if tag.IsOpen() && !tag.NoCloseTag {
			top.open = append(top.open, tag)
		}
	}
	return tag, nil
}

// prune drops open tags that an outer close tag has since ended.
func (e *enclosureFrame) prune() {
	for len(e.open) > 0 && e.open[len(e.open)-1].NoCloseTag {
		e.open = e.open[:len(e.open)-1]
	}
}
