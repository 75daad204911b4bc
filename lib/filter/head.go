package filter

import (
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// HeaderID is the id given to the page's <head> element.
const HeaderID = markup.AutoIDPrefix + "header"

// HeadSectionHandler gives <head> the id HeaderID so header contributions
// have a place to land. With insert set, a page with a <body> but no <head>
// gets a synthetic <head></head> pair inserted in front of <body>.
type HeadSectionHandler struct {
	insert    bool
	foundHead bool
	done      bool
	queue     []*markup.ComponentTag
}

// NewHeadSectionHandler returns a HeadSectionHandler for one parse.
func NewHeadSectionHandler(insert bool) *HeadSectionHandler {
	return &HeadSectionHandler{insert: insert}
}

// NextTag implements Filter.
func (f *HeadSectionHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	if len(f.queue) > 0 {
		t := f.queue[0]
		f.queue = f.queue[1:]
		return t, nil
	}
	tag, err := parent.NextTag()
	if err != nil || f.done {
		return tag, err
	}

	switch {
	case tag.Prefix == "" && strings.EqualFold(tag.Name, "head"):
		tag.ID = HeaderID
		f.foundHead = true
	case tag.WicketTag && strings.EqualFold(tag.Name, TagHead):
		f.foundHead = true
	case tag.Prefix == "" && strings.EqualFold(tag.Name, "body") && !tag.IsClose():
		f.done = true
		if f.insert && !f.foundHead {
			open := markup.NewTag(markup.RawTag{Name: "head", Kind: markup.Open, Pos: tag.Pos})
			open.ID = HeaderID
			open.Modified, open.Synthetic = true, true
			closeTag := markup.NewTag(markup.RawTag{Name: "head", Kind: markup.Close, Pos: tag.Pos})
			closeTag.ID = HeaderID
			closeTag.Modified, closeTag.Synthetic = true, true
			closeTag.OpenTag = open
			f.queue = append(f.queue, closeTag, tag)
			return open, nil
		}
	}
	return tag, nil
}
