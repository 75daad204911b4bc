package filter

import (
	"strconv"
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// TagIdentifier marks tags that bind to components. A tag in the reserved
// namespace gets the auto id "_<name>" (plus a counter for names that need
// unique ids) and an ns:id attribute on any tag sets its id explicitly.
type TagIdentifier struct {
	state    *State
	registry *TagRegistry
	counter  int
}

// NewTagIdentifier returns an identifier for one parse. A nil registry
// means DefaultTagRegistry.
func NewTagIdentifier(state *State, registry *TagRegistry) *TagIdentifier {
	if registry == nil {
		registry = DefaultTagRegistry()
	}
	return &TagIdentifier{state: state, registry: registry}
}

// NextTag implements Filter.
func (f *TagIdentifier) NextTag(parent Source) (*markup.ComponentTag, error) {
	tag, err := parent.NextTag()
	if err != nil {
		return nil, err
	}

	ns := f.state.Namespace
	if strings.EqualFold(tag.Prefix, ns) {
		tag.WicketTag = true
		name := strings.ToLower(tag.Name)
		if !f.registry.IsWellKnown(name) {
			return nil, markup.NewParseError(markup.ErrUnknownWicketTag, tag,
				"unknown tag name with %s namespace: '%s'; a component resolver may be missing", ns, tag.Name)
		}
		id := markup.AutoIDPrefix + name
		// Close tags take their id from the open tag later in the chain.
		if f.registry.RequiresUniqueID(name) && !tag.IsClose() {
			id += strconv.Itoa(f.counter)
			f.counter++
		}
		tag.ID = id
	}

	if value, ok := tag.Attrs.Lookup(ns + ":id"); ok {
		if strings.TrimSpace(value) == "" {
			return nil, markup.NewParseError(markup.ErrEmptyID, tag,
				"the %s:id attribute value must not be empty; maybe unmatched quotes?", ns)
		}
		tag.ID = value
	}
	return tag, nil
}
