package filter

import (
	"errors"
	"io"
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// RemoveHandler drops <wicket:remove> regions. The open tag of a region is
// returned with Ignore set and RegionEnd pointing past the matching close
// tag; every tag inside the region is consumed here. Regions may nest.
type RemoveHandler struct{}

// NewRemoveHandler returns a RemoveHandler.
func NewRemoveHandler() *RemoveHandler { return &RemoveHandler{} }

func isRemoveTag(tag *markup.ComponentTag) bool {
	return tag.WicketTag && strings.EqualFold(tag.Name, TagRemove)
}

// NextTag implements Filter.
func (f *RemoveHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	open, err := parent.NextTag()
	if err != nil {
		return nil, err
	}
	if !isRemoveTag(open) || open.IsClose() {
		return open, nil
	}
	if open.IsOpenClose() {
		return nil, markup.NewParseError(markup.ErrOpenCloseRemove, open,
			"wicket remove tag must not be an open-close tag")
	}

	depth := 0
	for {
		tag, err := parent.NextTag()
		if errors.Is(err, io.EOF) {
			return nil, markup.NewParseError(markup.ErrUnterminatedRegion, open,
				"did not find close tag for markup remove region; check that it is closed")
		}
		if err != nil {
			return nil, err
		}
		if tag.ID == "" {
			continue
		}
		if isRemoveTag(tag) {
			switch {
			case tag.IsOpenClose():
				return nil, markup.NewParseError(markup.ErrOpenCloseRemove, tag,
					"wicket remove tag must not be an open-close tag")
			case tag.IsOpen():
				depth++
				continue
			case depth > 0:
				depth--
				continue
			case tag.Closes(open):
				open.Ignore = true
				open.RegionEnd = tag.End()
				return open, nil
			}
		}
		return nil, markup.NewParseError(markup.ErrComponentInRemove, tag,
			"markup remove regions must not contain component tags")
	}
}
