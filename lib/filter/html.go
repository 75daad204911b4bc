package filter

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/pthm/hxmarkup/lib/markup"
)

// Void elements never have a close tag.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Keygen: true, atom.Link: true, atom.Meta: true, atom.Param: true,
	atom.Source: true, atom.Track: true, atom.Wbr: true,
}

// Elements whose close tag may be omitted.
var optionalClose = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Dt: true, atom.Dd: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Thead: true,
	atom.Tbody: true, atom.Tfoot: true, atom.Option: true, atom.Optgroup: true,
	atom.Colgroup: true, atom.Rt: true, atom.Rp: true,
}

// Elements a <tag/> form must be expanded for, since browsers treat the
// slash as noise and keep the element open.
var needsBody = map[atom.Atom]bool{
	atom.A: true, atom.Div: true, atom.Span: true, atom.Select: true,
	atom.Textarea: true, atom.Script: true, atom.Iframe: true, atom.Ul: true,
	atom.Ol: true, atom.Table: true, atom.Label: true, atom.Button: true,
	atom.Title: true, atom.Style: true, atom.Td: true, atom.Th: true,
	atom.Li: true, atom.Option: true, atom.P: true, atom.Form: true,
	atom.Tr: true, atom.Section: true, atom.Article: true, atom.Nav: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Aside: true,
}

func htmlAtom(tag *markup.ComponentTag) atom.Atom {
	if tag.Prefix != "" {
		return 0
	}
	return atom.Lookup([]byte(strings.ToLower(tag.Name)))
}

// TagTypeHandler expands <div wicket:id="x"/> into an open tag and a
// synthetic close tag, so components always see a body to render into.
type TagTypeHandler struct {
	pending *markup.ComponentTag
}

// NewTagTypeHandler returns a TagTypeHandler for one parse.
func NewTagTypeHandler() *TagTypeHandler { return &TagTypeHandler{} }

// NextTag implements Filter.
func (f *TagTypeHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	if t := f.pending; t != nil {
		f.pending = nil
		return t, nil
	}
	tag, err := parent.NextTag()
	if err != nil {
		return nil, err
	}
	if tag.IsOpenClose() && tag.ID != "" && needsBody[htmlAtom(tag)] {
		tag.Kind = markup.Open
		tag.Modified = true
		closeTag := markup.NewTag(markup.RawTag{
			Name:   tag.Name,
			Prefix: tag.Prefix,
			Kind:   markup.Close,
			Pos:    tag.End(),
		})
		closeTag.Modified = true
		closeTag.Synthetic = true
		f.pending = closeTag
	}
	return tag, nil
}

// HTMLHandler pairs open and close tags. Close tags are linked to their
// open tag and inherit its id; open tags without a close tag are marked
// NoCloseTag. Unbalanced plain HTML is tolerated; an unbalanced tag that
// carries a component id is an error.
type HTMLHandler struct {
	stack []*markup.ComponentTag
}

// NewHTMLHandler returns an HTMLHandler for one parse.
func NewHTMLHandler() *HTMLHandler { return &HTMLHandler{} }

// NextTag implements Filter.
func (f *HTMLHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	tag, err := parent.NextTag()
	if errors.Is(err, io.EOF) {
		if err := f.finish(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	a := htmlAtom(tag)
	switch tag.Kind {
	case markup.Open:
		if voidElements[a] {
			tag.NoCloseTag = true
			return tag, nil
		}
		f.stack = append(f.stack, tag)
	case markup.Close:
		if voidElements[a] {
			return tag, nil
		}
		idx := -1
		for i := len(f.stack) - 1; i >= 0; i-- {
			if f.stack[i].HasEqualName(tag) {
				idx = i
				break
			}
		}
		if idx < 0 {
			if tag.ID != "" {
				return nil, markup.NewParseError(markup.ErrMismatchedClose, tag, "close tag has no matching open tag")
			}
			return tag, nil
		}
		for i := len(f.stack) - 1; i > idx; i-- {
			open := f.stack[i]
			if open.ID != "" && !optionalClose[htmlAtom(open)] {
				return nil, markup.NewParseError(markup.ErrMismatchedClose, open,
					"tag closed by %s before its own close tag", tag.String())
			}
			open.NoCloseTag = true
		}
		open := f.stack[idx]
		f.stack = f.stack[:idx]
		tag.OpenTag = open
		if open.ID != "" {
			tag.ID = open.ID
		}
	}
	return tag, nil
}

func (f *HTMLHandler) finish() error {
	for i := len(f.stack) - 1; i >= 0; i-- {
		open := f.stack[i]
		// Unterminated remove regions are reported by RemoveHandler.
		if open.ID != "" && !optionalClose[htmlAtom(open)] && !isRemoveTag(open) {
			return markup.NewParseError(markup.ErrUnclosedTag, open, "tag does not have a close tag")
		}
		open.NoCloseTag = true
	}
	f.stack = nil
	return nil
}
